package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/firetask/backend/api/handler"
	"github.com/firetask/backend/internal/config"
	googleInfra "github.com/firetask/backend/internal/infrastructure/google"
	"github.com/firetask/backend/internal/infrastructure/monitor"
	pgInfra "github.com/firetask/backend/internal/infrastructure/postgres"
	"github.com/firetask/backend/internal/middleware"
	"github.com/firetask/backend/internal/router"
	"github.com/firetask/backend/internal/services/lifecycle"
	"github.com/firetask/backend/pkg/httpcontext"
	"github.com/firetask/backend/pkg/logger"
	"github.com/firetask/backend/repository"
	"github.com/firetask/backend/repository/firebase"
	"github.com/firetask/backend/repository/firestore"
	pgRepo "github.com/firetask/backend/repository/postgres"
	authUC "github.com/firetask/backend/usecase/auth"
	taskUC "github.com/firetask/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	identityClient := firebase.NewIdentityClient(firebase.Config{
		APIKey:       cfg.Firebase.APIKey,
		ProjectID:    cfg.Firebase.ProjectID,
		EmulatorHost: cfg.Firebase.AuthEmulatorHost,
	}, nil, zapLogger)

	taskRepo, err := newTaskRepository(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("task store init failed", zap.Error(err))
	}

	mon := monitor.New([]monitor.Check{
		{Name: "identity", Probe: identityClient.Ping},
		{Name: "store", Probe: taskRepo.Ping},
	}, cfg.Monitor.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	authUseCase := authUC.New(identityClient, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Diag:   apiHandler.NewDiagHandler(ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Authenticate(identityClient, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// newTaskRepository selects the record store backend. The hosted document
// database is the default; Postgres is available for self-hosted setups.
func newTaskRepository(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repository.TaskRepository, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		return pgRepo.NewTaskRepository(pool), nil

	default:
		credentialsPath := cfg.Firebase.CredentialsPath
		if cfg.Firebase.FirestoreEmulator != "" {
			credentialsPath = ""
		}
		storeClient, err := googleInfra.NewHTTPClient(ctx, credentialsPath)
		if err != nil {
			return nil, err
		}
		return firestore.NewTaskRepository(firestore.Config{
			ProjectID:    cfg.Firebase.ProjectID,
			EmulatorHost: cfg.Firebase.FirestoreEmulator,
		}, storeClient, zapLogger), nil
	}
}
