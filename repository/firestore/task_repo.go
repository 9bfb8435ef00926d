package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/firetask/backend/domain"
	"github.com/firetask/backend/repository"
)

const (
	productionEndpoint = "https://firestore.googleapis.com/v1"
	collection         = "tasks"
)

// Config identifies the hosted document database.
type Config struct {
	ProjectID    string
	DatabaseID   string
	EmulatorHost string
}

// taskRepository is a document-database-backed TaskRepository speaking the
// Firestore REST v1 surface. The store assigns document ids and resolves
// concurrent writes at its own consistency level; no coordination happens
// here.
type taskRepository struct {
	cfg      Config
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewTaskRepository returns a Firestore-backed TaskRepository. In production
// httpClient must carry credentials for the datastore scope; against the
// emulator a plain client is enough.
func NewTaskRepository(cfg Config, httpClient *http.Client, logger *zap.Logger) repository.TaskRepository {
	if cfg.DatabaseID == "" {
		cfg.DatabaseID = "(default)"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := productionEndpoint
	if cfg.EmulatorHost != "" {
		endpoint = fmt.Sprintf("http://%s/v1", cfg.EmulatorHost)
	}
	return &taskRepository{
		cfg:      cfg,
		endpoint: endpoint,
		http:     httpClient,
		logger:   logger,
	}
}

// value is the typed wrapper Firestore uses for every stored field.
type value struct {
	StringValue  *string `json:"stringValue,omitempty"`
	BooleanValue *bool   `json:"booleanValue,omitempty"`
}

type document struct {
	Name   string           `json:"name,omitempty"`
	Fields map[string]value `json:"fields"`
}

type queryResult struct {
	Document *document `json:"document,omitempty"`
}

func (r *taskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	var doc document
	if err := r.do(ctx, http.MethodGet, r.documentURL(id), nil, &doc); err != nil {
		return nil, err
	}
	return taskFromDocument(&doc), nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, uid string) ([]domain.Task, error) {
	query := map[string]interface{}{
		"structuredQuery": map[string]interface{}{
			"from": []map[string]interface{}{{"collectionId": collection}},
			"where": map[string]interface{}{
				"fieldFilter": map[string]interface{}{
					"field": map[string]interface{}{"fieldPath": "user_id"},
					"op":    "EQUAL",
					"value": map[string]interface{}{"stringValue": uid},
				},
			},
		},
	}

	var results []queryResult
	runQueryURL := fmt.Sprintf("%s/%s:runQuery", r.endpoint, r.parent())
	if err := r.do(ctx, http.MethodPost, runQueryURL, query, &results); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(results))
	for _, res := range results {
		// Terminal entries carry only a read time, no document.
		if res.Document == nil {
			continue
		}
		tasks = append(tasks, *taskFromDocument(res.Document))
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (string, error) {
	doc := document{
		Fields: encodeFields(domain.TaskFields{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"user_id":     task.UserID,
		}),
	}

	var created document
	createURL := fmt.Sprintf("%s/%s/%s", r.endpoint, r.parent(), collection)
	if err := r.do(ctx, http.MethodPost, createURL, doc, &created); err != nil {
		return "", err
	}
	return path.Base(created.Name), nil
}

func (r *taskRepository) UpdateFields(ctx context.Context, id string, fields domain.TaskFields) error {
	if len(fields) == 0 {
		// An empty update mask would replace the whole document.
		return nil
	}

	params := url.Values{}
	for name := range fields {
		params.Add("updateMask.fieldPaths", name)
	}
	params.Set("currentDocument.exists", "true")

	patchURL := fmt.Sprintf("%s?%s", r.documentURL(id), params.Encode())
	return r.do(ctx, http.MethodPatch, patchURL, document{Fields: encodeFields(fields)}, nil)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	params := url.Values{}
	params.Set("currentDocument.exists", "true")
	deleteURL := fmt.Sprintf("%s?%s", r.documentURL(id), params.Encode())
	return r.do(ctx, http.MethodDelete, deleteURL, nil, nil)
}

func (r *taskRepository) Ping(ctx context.Context) error {
	listURL := fmt.Sprintf("%s/%s/%s?pageSize=1", r.endpoint, r.parent(), collection)
	return r.do(ctx, http.MethodGet, listURL, nil, nil)
}

func (r *taskRepository) parent() string {
	return fmt.Sprintf("projects/%s/databases/%s/documents", r.cfg.ProjectID, r.cfg.DatabaseID)
}

func (r *taskRepository) documentURL(id string) string {
	return fmt.Sprintf("%s/%s/%s/%s", r.endpoint, r.parent(), collection, id)
}

func (r *taskRepository) do(ctx context.Context, method, rawURL string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return domain.ErrStoreUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrTaskNotFound
	case resp.StatusCode >= 500:
		return domain.ErrStoreUnavailable.Wrap(fmt.Errorf("store returned %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(resp.Body)
		r.logger.Error("store rejected request",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(raw))))
		return domain.WrapError(domain.ErrCodeInternal, "unexpected store response",
			fmt.Errorf("store returned %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func encodeFields(fields domain.TaskFields) map[string]value {
	encoded := make(map[string]value, len(fields))
	for name, raw := range fields {
		switch v := raw.(type) {
		case string:
			s := v
			encoded[name] = value{StringValue: &s}
		case bool:
			b := v
			encoded[name] = value{BooleanValue: &b}
		}
	}
	return encoded
}

func taskFromDocument(doc *document) *domain.Task {
	task := &domain.Task{ID: path.Base(doc.Name)}
	if v, ok := doc.Fields["title"]; ok && v.StringValue != nil {
		task.Title = *v.StringValue
	}
	if v, ok := doc.Fields["description"]; ok && v.StringValue != nil {
		task.Description = *v.StringValue
	}
	if v, ok := doc.Fields["completed"]; ok && v.BooleanValue != nil {
		task.Completed = *v.BooleanValue
	}
	if v, ok := doc.Fields["user_id"]; ok && v.StringValue != nil {
		task.UserID = *v.StringValue
	}
	return task
}
