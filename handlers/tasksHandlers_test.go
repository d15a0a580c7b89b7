package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/database"
	"tasktracker/models"
)

var errStoreDown = errors.New("store down")

// fakeStore returns canned results and records the last call's arguments.
type fakeStore struct {
	task    *models.Task
	tasks   []models.Task
	stats   models.Stats
	deleted bool
	err     error

	gotOpts  database.ListOptions
	gotPatch database.TaskPatch
	gotTitle string
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*models.Task, error) {
	return f.task, f.err
}

func (f *fakeStore) List(ctx context.Context, opts database.ListOptions) ([]models.Task, error) {
	f.gotOpts = opts
	return f.tasks, f.err
}

func (f *fakeStore) Statistics(ctx context.Context) (models.Stats, error) {
	return f.stats, f.err
}

func (f *fakeStore) Create(ctx context.Context, title string) (*models.Task, error) {
	f.gotTitle = title
	return f.task, f.err
}

func (f *fakeStore) Update(ctx context.Context, id int64, patch database.TaskPatch) (*models.Task, error) {
	f.gotPatch = patch
	return f.task, f.err
}

func (f *fakeStore) Complete(ctx context.Context, id int64) (*models.Task, error) {
	return f.task, f.err
}

func (f *fakeStore) Delete(ctx context.Context, id int64) (bool, error) {
	return f.deleted, f.err
}

func sampleTask() *models.Task {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	return &models.Task{ID: 7, Title: "Learn Go", CreatedAt: now, UpdatedAt: now}
}

func serve(h http.HandlerFunc, method, target, body string, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateTaskHandler_StoreFailureIsValidationError(t *testing.T) {
	h := NewTaskHandlers(&fakeStore{err: errStoreDown})

	w := serve(h.CreateTaskHandler, http.MethodPost, "/tasks", `{"title":"x"}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":{"code":"TASK_VALIDATION_ERROR","message":"Failed to create task"}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "store down")
}

func TestCreateTaskHandler_PassesTitle(t *testing.T) {
	store := &fakeStore{task: sampleTask()}
	h := NewTaskHandlers(store)

	w := serve(h.CreateTaskHandler, http.MethodPost, "/tasks", `{"title":"Learn Go"}`, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Learn Go", store.gotTitle)
	assert.JSONEq(t, `{"id":7,"title":"Learn Go","completed":false,"created_at":"2026-01-15T10:30:00Z","updated_at":"2026-01-15T10:30:00Z"}`, w.Body.String())
}

func TestCreateTaskHandler_InvalidSkipsStore(t *testing.T) {
	store := &fakeStore{task: sampleTask()}
	h := NewTaskHandlers(store)

	w := serve(h.CreateTaskHandler, http.MethodPost, "/tasks", `{"title":""}`, nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, store.gotTitle)
	assert.Contains(t, w.Body.String(), `"loc":["body","title"]`)
}

func TestStoreFailuresAreInternalErrors(t *testing.T) {
	h := NewTaskHandlers(&fakeStore{err: errStoreDown})
	vars := map[string]string{"id": "1"}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		body    string
		vars    map[string]string
	}{
		{"list", h.ListTasksHandler, http.MethodGet, "", nil},
		{"stats", h.StatsHandler, http.MethodGet, "", nil},
		{"get", h.GetTaskHandler, http.MethodGet, "", vars},
		{"update", h.UpdateTaskHandler, http.MethodPut, `{"completed":true}`, vars},
		{"complete", h.CompleteTaskHandler, http.MethodPost, "", vars},
		{"delete", h.DeleteTaskHandler, http.MethodDelete, "", vars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.handler, tt.method, "/tasks", tt.body, tt.vars)
			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`, w.Body.String())
		})
	}
}

func TestAbsentTaskIsNotFound(t *testing.T) {
	h := NewTaskHandlers(&fakeStore{})
	vars := map[string]string{"id": "42"}

	for name, hf := range map[string]http.HandlerFunc{
		"get":      h.GetTaskHandler,
		"complete": h.CompleteTaskHandler,
		"delete":   h.DeleteTaskHandler,
	} {
		t.Run(name, func(t *testing.T) {
			w := serve(hf, http.MethodGet, "/tasks/42", "", vars)
			require.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"error":{"code":"TASK_NOT_FOUND","message":"Task with ID 42 does not exist"}}`, w.Body.String())
		})
	}
}

func TestListTasksHandler_ParamsReachStore(t *testing.T) {
	store := &fakeStore{tasks: []models.Task{*sampleTask()}, stats: models.NewStats(3, 1)}
	h := NewTaskHandlers(store)

	w := serve(h.ListTasksHandler, http.MethodGet, "/tasks?skip=2&limit=2000&completed=false", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, store.gotOpts.Skip)
	assert.Equal(t, 1000, store.gotOpts.Limit)
	require.NotNil(t, store.gotOpts.Completed)
	assert.False(t, *store.gotOpts.Completed)
	assert.Contains(t, w.Body.String(), `"total":3,"completed":1,"pending":2`)
}

func TestUpdateTaskHandler_PassesOnlySuppliedFields(t *testing.T) {
	store := &fakeStore{task: sampleTask()}
	h := NewTaskHandlers(store)

	w := serve(h.UpdateTaskHandler, http.MethodPut, "/tasks/7", `{"title":"New"}`, map[string]string{"id": "7"})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, store.gotPatch.Title)
	assert.Equal(t, "New", *store.gotPatch.Title)
	assert.Nil(t, store.gotPatch.Completed)
}

func TestDeleteTaskHandler_NoContent(t *testing.T) {
	h := NewTaskHandlers(&fakeStore{deleted: true})

	w := serve(h.DeleteTaskHandler, http.MethodDelete, "/tasks/7", "", map[string]string{"id": "7"})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
