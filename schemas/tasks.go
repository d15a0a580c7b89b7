// Package schemas describes the request and response bodies of the API and
// checks incoming payloads against their constraints.
package schemas

import (
	"time"

	"tasktracker/models"
)

// TaskCreate is the body of POST /tasks. Fields other than title are ignored;
// new tasks always start not completed.
type TaskCreate struct {
	Title string `json:"title" validate:"required,task_title"`
}

// TaskUpdate is the body of PUT /tasks/{id}. Absent or null fields are left
// unchanged.
type TaskUpdate struct {
	Title     *string `json:"title" validate:"omitnil,task_title"`
	Completed *bool   `json:"completed"`
}

type TaskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// TaskList is the body of GET /tasks. The counts cover every task, not just
// the returned page.
type TaskList struct {
	Tasks     []TaskResponse `json:"tasks"`
	Total     int64          `json:"total"`
	Completed int64          `json:"completed"`
	Pending   int64          `json:"pending"`
}

func NewTaskList(tasks []models.Task, stats models.Stats) TaskList {
	out := TaskList{
		Tasks:     make([]TaskResponse, 0, len(tasks)),
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Pending,
	}
	for _, task := range tasks {
		out.Tasks = append(out.Tasks, NewTaskResponse(task))
	}
	return out
}
