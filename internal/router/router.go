package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/firetask/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Diag   *apiHandler.DiagHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Identity routes
	r.POST("/register", handlers.Auth.Register)
	r.POST("/login", handlers.Auth.Login)

	// Protected task routes
	r.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/task", authMiddleware(handlers.Task.CreateTask))
	r.PUT("/task/{task_id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/task/{task_id}", authMiddleware(handlers.Task.DeleteTask))
	r.PATCH("/task/{task_id}/complete", authMiddleware(handlers.Task.CompleteTask))

	// Protocol diagnostics
	r.OPTIONS("/options", handlers.Diag.Options)
	r.HEAD("/head", handlers.Diag.Head)
	r.Handle(http.MethodTrace, "/trace", handlers.Diag.Trace)

	return r
}
