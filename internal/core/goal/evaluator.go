// Package goal re-checks usage goals whenever a session closes.
package goal

import (
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/penwyp/go-activity-monitor/internal/util"
)

// TaskSource supplies the active tasks for an app and records completions.
type TaskSource interface {
	ActiveTasksForApp(appName string) ([]model.Task, error)
	UpdateTaskStatus(id int64, status model.TaskStatus) error
}

// UsageSource answers usage-since-creation queries.
type UsageSource interface {
	UsageSince(appName string, since time.Time, titleFilter string) (int64, error)
}

// Notifier delivers goal-completion notifications to whatever surface the
// host application wires in.
type Notifier interface {
	TaskCompleted(task model.Task)
}

// LogNotifier is the default Notifier: it just logs completions.
type LogNotifier struct{}

func (LogNotifier) TaskCompleted(task model.Task) {
	util.LogInfof("Goal reached: %s (%s)", task.AppName, util.FormatSeconds(task.GoalSeconds))
}

// Evaluator checks active tasks against accumulated usage. The check runs
// reactively at session-close time, so completion is detected at most one
// polling interval late, never early.
type Evaluator struct {
	tasks    TaskSource
	usage    UsageSource
	notifier Notifier
}

// New creates an Evaluator. A nil notifier falls back to LogNotifier.
func New(tasks TaskSource, usage UsageSource, notifier Notifier) *Evaluator {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Evaluator{tasks: tasks, usage: usage, notifier: notifier}
}

// SessionClosed re-checks every active task targeting appName. Best-effort:
// failures are logged and the remaining tasks still get checked. Completed
// tasks are excluded by the status filter, so crossing the threshold again
// never re-triggers.
func (e *Evaluator) SessionClosed(appName string) {
	tasks, err := e.tasks.ActiveTasksForApp(appName)
	if err != nil {
		util.LogErrorf("Goal check for %s skipped: %v", appName, err)
		return
	}

	for _, task := range tasks {
		usage, err := e.usage.UsageSince(task.AppName, task.CreatedAt, task.TitleFilter)
		if err != nil {
			util.LogErrorf("Usage lookup for task %d failed: %v", task.ID, err)
			continue
		}
		if usage < task.GoalSeconds {
			continue
		}

		if err := e.tasks.UpdateTaskStatus(task.ID, model.TaskCompleted); err != nil {
			util.LogErrorf("Failed to complete task %d: %v", task.ID, err)
			continue
		}
		task.Status = model.TaskCompleted
		e.notifier.TaskCompleted(task)
	}
}
