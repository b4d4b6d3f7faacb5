package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
)

// ErrTaskNotFound is returned when a task id does not exist.
var ErrTaskNotFound = errors.New("task not found")

// CreateTask inserts a new active task and returns its id.
func (s *Store) CreateTask(appName, description string, goalSeconds int64, titleFilter string, createdAt time.Time) (int64, error) {
	if appName == "" {
		return 0, fmt.Errorf("app name must not be empty")
	}
	if goalSeconds <= 0 {
		return 0, fmt.Errorf("goal must be positive, got %d seconds", goalSeconds)
	}
	if err := sanitizeText(appName, "app_name"); err != nil {
		return 0, err
	}

	res, err := s.db.Exec(
		`INSERT INTO tasks (app_name, description, goal_seconds, created_at, status, title_filter)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		appName, description, goalSeconds, createdAt.Unix(), model.TaskActive, titleFilter)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task id: %w", err)
	}
	return id, nil
}

// Tasks returns all tasks, newest first.
func (s *Store) Tasks() ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, app_name, description, goal_seconds, created_at, status, title_filter
		 FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// TaskByID returns one task or ErrTaskNotFound.
func (s *Store) TaskByID(id int64) (model.Task, error) {
	row := s.db.QueryRow(
		`SELECT id, app_name, description, goal_seconds, created_at, status, title_filter
		 FROM tasks WHERE id = ?`, id)

	var (
		task       model.Task
		createdSec int64
		status     string
	)
	err := row.Scan(&task.ID, &task.AppName, &task.Description, &task.GoalSeconds,
		&createdSec, &status, &task.TitleFilter)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("scan task: %w", err)
	}
	task.CreatedAt = time.Unix(createdSec, 0)
	task.Status = model.TaskStatus(status)
	return task, nil
}

// ActiveTasksForApp returns active tasks targeting appName, oldest first.
// Only active tasks are eligible for goal evaluation; a completed task is
// never re-checked.
func (s *Store) ActiveTasksForApp(appName string) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, app_name, description, goal_seconds, created_at, status, title_filter
		 FROM tasks WHERE status = ? AND app_name = ? ORDER BY created_at ASC`,
		model.TaskActive, appName)
	if err != nil {
		return nil, fmt.Errorf("query active tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// UpdateTaskStatus transitions a task to the given status.
func (s *Store) UpdateTaskStatus(id int64, status model.TaskStatus) error {
	if !model.ValidTaskStatus(string(status)) {
		return fmt.Errorf("invalid task status %q", status)
	}
	res, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id int64) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		var (
			task       model.Task
			createdSec int64
			status     string
		)
		if err := rows.Scan(&task.ID, &task.AppName, &task.Description, &task.GoalSeconds,
			&createdSec, &status, &task.TitleFilter); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.CreatedAt = time.Unix(createdSec, 0)
		task.Status = model.TaskStatus(status)
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
