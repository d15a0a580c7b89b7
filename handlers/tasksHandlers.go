package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"tasktracker/database"
	"tasktracker/models"
	"tasktracker/schemas"
	"tasktracker/utilities"
)

// TaskStore is the set of repository operations the task endpoints need.
type TaskStore interface {
	Get(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, opts database.ListOptions) ([]models.Task, error)
	Statistics(ctx context.Context) (models.Stats, error)
	Create(ctx context.Context, title string) (*models.Task, error)
	Update(ctx context.Context, id int64, patch database.TaskPatch) (*models.Task, error)
	Complete(ctx context.Context, id int64) (*models.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type TaskHandlers struct {
	store TaskStore
}

func NewTaskHandlers(store TaskStore) *TaskHandlers {
	return &TaskHandlers{store: store}
}

// ListTasksHandler returns a page of tasks together with the overall counts.
func (h *TaskHandlers) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("ListTasksHandler: Listing tasks")

	params, issues := schemas.ParseListParams(r.URL.Query())
	if len(issues) > 0 {
		writeValidationError(w, issues)
		return
	}

	tasks, err := h.store.List(r.Context(), database.ListOptions{
		Skip:      params.Skip,
		Limit:     params.Limit,
		Completed: params.Completed,
	})
	if err != nil {
		utilities.LogError(err, "ListTasksHandler: Error fetching tasks")
		writeInternalError(w)
		return
	}

	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		utilities.LogError(err, "ListTasksHandler: Error counting tasks")
		writeInternalError(w)
		return
	}

	utilities.LogDebug("ListTasksHandler: Returning %d of %d tasks", len(tasks), stats.Total)
	writeJSON(w, http.StatusOK, schemas.NewTaskList(tasks, stats))
}

// StatsHandler returns total, completed and pending counts.
func (h *TaskHandlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		utilities.LogError(err, "StatsHandler: Error counting tasks")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetTaskHandler returns one task.
func (h *TaskHandlers) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	utilities.LogDebug("GetTaskHandler: Fetching task %d", id)

	task, err := h.store.Get(r.Context(), id)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("GetTaskHandler: Error fetching task %d", id))
		writeInternalError(w)
		return
	}
	if task == nil {
		writeTaskNotFound(w, id)
		return
	}

	writeJSON(w, http.StatusOK, schemas.NewTaskResponse(*task))
}

// CreateTaskHandler creates a task from a validated title. A store failure on
// this path is reported as TASK_VALIDATION_ERROR.
func (h *TaskHandlers) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("CreateTaskHandler: Creating task")

	var req schemas.TaskCreate
	if issues := schemas.DecodeJSON(r, &req); len(issues) > 0 {
		writeValidationError(w, issues)
		return
	}

	task, err := h.store.Create(r.Context(), req.Title)
	if err != nil {
		utilities.LogError(err, "CreateTaskHandler: Failed to create task")
		writeError(w, http.StatusBadRequest, schemas.CodeTaskValidationError, "Failed to create task")
		return
	}

	utilities.LogInfo("Created new task: %d - %s", task.ID, task.Title)
	writeJSON(w, http.StatusCreated, schemas.NewTaskResponse(*task))
}

// UpdateTaskHandler applies a partial update.
func (h *TaskHandlers) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	utilities.LogDebug("UpdateTaskHandler: Updating task %d", id)

	var req schemas.TaskUpdate
	if issues := schemas.DecodeJSON(r, &req); len(issues) > 0 {
		writeValidationError(w, issues)
		return
	}

	task, err := h.store.Update(r.Context(), id, database.TaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("UpdateTaskHandler: Error updating task %d", id))
		writeInternalError(w)
		return
	}
	if task == nil {
		writeTaskNotFound(w, id)
		return
	}

	utilities.LogInfo("Updated task: %d", task.ID)
	writeJSON(w, http.StatusOK, schemas.NewTaskResponse(*task))
}

// CompleteTaskHandler marks a task completed.
func (h *TaskHandlers) CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	utilities.LogDebug("CompleteTaskHandler: Completing task %d", id)

	task, err := h.store.Complete(r.Context(), id)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("CompleteTaskHandler: Error completing task %d", id))
		writeInternalError(w)
		return
	}
	if task == nil {
		writeTaskNotFound(w, id)
		return
	}

	utilities.LogInfo("Completed task: %d - %s", task.ID, task.Title)
	writeJSON(w, http.StatusOK, schemas.NewTaskResponse(*task))
}

// DeleteTaskHandler removes a task.
func (h *TaskHandlers) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	utilities.LogDebug("DeleteTaskHandler: Deleting task %d", id)

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		utilities.LogError(err, fmt.Sprintf("DeleteTaskHandler: Error deleting task %d", id))
		writeInternalError(w)
		return
	}
	if !deleted {
		writeTaskNotFound(w, id)
		return
	}

	utilities.LogInfo("Deleted task: %d", id)
	w.WriteHeader(http.StatusNoContent)
}

func taskIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, issues := schemas.ParseTaskID(mux.Vars(r)["id"])
	if len(issues) > 0 {
		writeValidationError(w, issues)
		return 0, false
	}
	return id, true
}

func writeTaskNotFound(w http.ResponseWriter, id int64) {
	writeError(w, http.StatusNotFound, schemas.CodeTaskNotFound, fmt.Sprintf("Task with ID %d does not exist", id))
}
