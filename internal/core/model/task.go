package model

import "time"

// TaskStatus is the lifecycle state of a usage goal.
type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
	TaskPaused    TaskStatus = "paused"
	TaskCancelled TaskStatus = "cancelled"
)

// ValidTaskStatus reports whether s is one of the known task states.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskActive, TaskCompleted, TaskPaused, TaskCancelled:
		return true
	}
	return false
}

// Task is a user-defined usage goal: accumulate GoalSeconds of activity in
// AppName (optionally restricted to window titles containing TitleFilter)
// counted from CreatedAt onward.
type Task struct {
	ID          int64      `json:"id"`
	AppName     string     `json:"appName"`
	Description string     `json:"description,omitempty"`
	GoalSeconds int64      `json:"goalSeconds"`
	CreatedAt   time.Time  `json:"createdAt"`
	Status      TaskStatus `json:"status"`
	TitleFilter string     `json:"titleFilter,omitempty"`
}
