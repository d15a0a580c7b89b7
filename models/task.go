package models

import "time"

// TitleMaxLength is the column width of tasks.title.
const TitleMaxLength = 200

// Task is a row of the tasks table.
type Task struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Completed bool      `gorm:"not null" json:"completed"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// Stats is the aggregate count over all tasks.
type Stats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// NewStats derives Pending from the two counts.
func NewStats(total, completed int64) Stats {
	return Stats{Total: total, Completed: completed, Pending: total - completed}
}
