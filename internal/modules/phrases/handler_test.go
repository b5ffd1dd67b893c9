package phrases

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamespheffernan/words-on-phone-server/internal/pkg/taskqueue"
)

// fakeTasks mirrors the queue's lookup contract: a missing record comes back
// as a nil task with a nil error.
type fakeTasks struct {
	records map[string]*taskqueue.Task
}

func (f *fakeTasks) Enqueue(ctx context.Context, taskType string, payload interface{}, dedupKey string) (*taskqueue.Task, bool, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, false, err
	}
	task := &taskqueue.Task{
		ID:        "task-" + dedupKey,
		Type:      taskType,
		Payload:   data,
		Status:    taskqueue.TaskPending,
		DedupKey:  dedupKey,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.records[task.ID] = task
	return task, true, nil
}

func (f *fakeTasks) UpdateStatus(ctx context.Context, id string, status taskqueue.TaskStatus, result interface{}, errMsg string) error {
	if task, ok := f.records[id]; ok {
		task.Status = status
		task.Error = errMsg
	}
	return nil
}

func (f *fakeTasks) GetByID(ctx context.Context, id string) (*taskqueue.Task, error) {
	return f.records[id], nil
}

func setupRouter(t *testing.T, orch *Orchestrator, store *Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(orch, store, orch.ledger)
	h.RegisterRoutes(r.Group("/api/v2"), func(c *gin.Context) { c.Next() })
	return r
}

func TestTaskLookupMissingRecord(t *testing.T) {
	orch, store, _ := setupPipeline(t, &fakeClient{structured: true}, testGenConfig())
	orch.tasks = &fakeTasks{records: map[string]*taskqueue.Task{}}

	_, err := orch.Task(context.Background(), "expired-or-never-existed")
	require.ErrorIs(t, err, ErrTaskNotFound)

	r := setupRouter(t, orch, store)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/phrases/tasks/expired-or-never-existed", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "task not found")
}

func TestPreviewCreatedThenOK(t *testing.T) {
	client := &fakeClient{structured: true, queue: []fakeResponse{
		{items: candidates("Sand Castle", "Beach Ball", "Tide Pool")},
	}}
	orch, store, _ := setupPipeline(t, client, testGenConfig())
	r := setupRouter(t, orch, store)

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"name":"Beach Day"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v2/phrases/categories/preview", body)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Contains(t, first.Body.String(), "Sand Castle")

	// The record exists now and the sample words are cached.
	second := post()
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, 1, client.callCount())
}

func TestTaskLookupExistingRecord(t *testing.T) {
	orch, store, _ := setupPipeline(t, &fakeClient{structured: true}, testGenConfig())
	fake := &fakeTasks{records: map[string]*taskqueue.Task{}}
	orch.tasks = fake

	queued, _, err := fake.Enqueue(context.Background(), TaskTypeGenerate, GeneratePayload{RequestID: "r1"}, "r1")
	require.NoError(t, err)

	r := setupRouter(t, orch, store)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/phrases/tasks/"+queued.ID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), queued.ID)
}
