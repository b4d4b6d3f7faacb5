package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"github.com/penwyp/go-activity-monitor/internal/data/aggregator"
	"github.com/penwyp/go-activity-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-activity-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	taskApp         string
	taskGoal        time.Duration
	taskDescription string
	taskTitleFilter string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage usage goals",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a usage goal for an app",
	RunE:  runTaskCreate,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with their progress",
	RunE:  runTaskList,
}

var taskProgressCmd = &cobra.Command{
	Use:   "progress <id>",
	Short: "Show accumulated seconds toward one goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskProgress,
}

var taskPauseCmd = &cobra.Command{
	Use:   "pause <id>",
	Short: "Pause a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  taskStatusRunner(model.TaskPaused),
}

var taskResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Reactivate a paused goal",
	Args:  cobra.ExactArgs(1),
	RunE:  taskStatusRunner(model.TaskActive),
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  taskStatusRunner(model.TaskCancelled),
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List recently tracked app names (goal-creation suggestions)",
	RunE:  runTaskApps,
}

func init() {
	taskCreateCmd.Flags().StringVar(&taskApp, "app", "", "Target app name")
	taskCreateCmd.Flags().DurationVar(&taskGoal, "goal", 0, "Goal duration (e.g. 2h30m)")
	taskCreateCmd.Flags().StringVar(&taskDescription, "description", "", "Optional description")
	taskCreateCmd.Flags().StringVar(&taskTitleFilter, "filter", "",
		"Only count sessions whose window title contains this substring")
	taskCreateCmd.MarkFlagRequired("app")
	taskCreateCmd.MarkFlagRequired("goal")

	taskCmd.AddCommand(taskCreateCmd, taskListCmd, taskProgressCmd,
		taskPauseCmd, taskResumeCmd, taskCancelCmd, taskDeleteCmd, taskAppsCmd)
	rootCmd.AddCommand(taskCmd)
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	if taskGoal <= 0 {
		return fmt.Errorf("goal must be positive, got %s", taskGoal)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.CreateTask(taskApp, taskDescription, int64(taskGoal.Seconds()),
		taskTitleFilter, util.GetTimeProvider().Now())
	if err != nil {
		return err
	}
	fmt.Printf("Created task %d: %s of %s\n", id, util.FormatSeconds(int64(taskGoal.Seconds())), taskApp)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.Tasks()
	if err != nil {
		return err
	}

	agg := aggregator.New(s)
	progress := make(map[int64]int64, len(tasks))
	for _, task := range tasks {
		usage, err := agg.UsageSince(task.AppName, task.CreatedAt, task.TitleFilter)
		if err != nil {
			util.LogWarnf("Progress lookup for task %d failed: %v", task.ID, err)
			continue
		}
		progress[task.ID] = usage
	}

	return renderReport(tasks, formatter.TasksTable(tasks, progress))
}

func runTaskProgress(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.TaskByID(id)
	if err != nil {
		return err
	}
	usage, err := aggregator.New(s).UsageSince(task.AppName, task.CreatedAt, task.TitleFilter)
	if err != nil {
		return err
	}
	fmt.Printf("%s / %s (%s)\n", util.FormatSeconds(usage),
		util.FormatSeconds(task.GoalSeconds), task.Status)
	return nil
}

func taskStatusRunner(status model.TaskStatus) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.UpdateTaskStatus(id, status); err != nil {
			return err
		}
		fmt.Printf("Task %d is now %s\n", id, status)
		return nil
	}
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteTask(id); err != nil {
		return err
	}
	fmt.Printf("Deleted task %d\n", id)
	return nil
}

func runTaskApps(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	apps, err := aggregator.New(s).RecentApps()
	if err != nil {
		return err
	}
	for _, app := range apps {
		fmt.Println(app)
	}
	return nil
}
