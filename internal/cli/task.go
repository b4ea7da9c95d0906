package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/service"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Create, list, update, search, complete, and delete tasks.`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [project-id] [title]",
	Short: "Add a task to a project",
	Long: `Add a new task to a project.

Examples:
  taskdeck task add 1 "Write launch announcement" -d "Draft, review, and schedule the post"
  taskdeck task add 1 "Renew TLS certificates" -d "All public domains" --deadline 2030-06-01`,
	Args: cobra.ExactArgs(2),
	RunE: runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:     "list [project-id]",
	Aliases: []string{"ls"},
	Short:   "List a project's tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUpdate,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

var taskSearchCmd = &cobra.Command{
	Use:   "search [project-id] [query]",
	Short: "Search a project's tasks by title or description",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskSearch,
}

var taskOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List overdue tasks",
	Long:  `List tasks whose deadline has passed and that are not done.`,
	RunE:  runTaskOverdue,
}

var (
	taskDescription string
	taskDeadline    string
	taskStatus      string
	taskTitle       string
	overdueProject  int64
)

func init() {
	taskAddCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "Task description (required)")
	taskAddCmd.Flags().StringVar(&taskDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVarP(&taskStatus, "status", "s", "", "Initial status (default: todo)")

	taskListCmd.Flags().StringVarP(&taskStatus, "status", "s", "", "Filter by status")

	taskUpdateCmd.Flags().StringVarP(&taskTitle, "title", "t", "", "New title")
	taskUpdateCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "New description")
	taskUpdateCmd.Flags().StringVar(&taskDeadline, "deadline", "", "New deadline (YYYY-MM-DD, empty clears)")
	taskUpdateCmd.Flags().StringVarP(&taskStatus, "status", "s", "", "New status")

	taskOverdueCmd.Flags().Int64VarP(&overdueProject, "project", "P", 0, "Scope to one project")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskSearchCmd)
	taskCmd.AddCommand(taskOverdueCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	projectID, err := parseIDArg(args[0], "project")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.tasks.Create(context.Background(), projectID,
		args[1], taskDescription, taskDeadline, model.Status(taskStatus))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added task #%d to project #%d: %q\n", task.ID, projectID, task.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	projectID, err := parseIDArg(args[0], "project")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	project, err := a.projects.Get(ctx, projectID)
	if err != nil {
		return err
	}

	var tasks []model.Task
	if cmd.Flags().Changed("status") {
		tasks, err = a.tasks.ListByStatus(ctx, projectID, model.Status(taskStatus))
	} else {
		tasks, err = a.tasks.ListByProject(ctx, projectID)
	}
	if err != nil {
		return err
	}

	printTaskList(fmt.Sprintf("%s (%d task(s))", project.Name, len(tasks)), tasks)
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0], "task")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.tasks.Get(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", headerStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title)))
	fmt.Printf("Project: #%d\n", task.ProjectID)
	fmt.Printf("Status:  %s\n", renderStatus(task))
	if task.Deadline != nil {
		fmt.Printf("Due:     %s\n", task.Deadline)
	}
	if task.ClosedAt != nil {
		fmt.Printf("Closed:  %s\n", task.ClosedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println(task.Description)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0], "task")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.tasks.MarkDone(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Completed: %q\n", task.Title)
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0], "task")
	if err != nil {
		return err
	}

	var patch service.TaskPatch
	if cmd.Flags().Changed("title") {
		patch.Title = &taskTitle
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &taskDescription
	}
	if cmd.Flags().Changed("deadline") {
		patch.Deadline = &taskDeadline
	}
	if cmd.Flags().Changed("status") {
		status := model.Status(taskStatus)
		patch.Status = &status
	}
	if patch.Title == nil && patch.Description == nil && patch.Deadline == nil && patch.Status == nil {
		return fmt.Errorf("nothing to update: pass --title, --description, --deadline, and/or --status")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.tasks.Update(context.Background(), id, patch)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated task #%d: %q\n", task.ID, task.Title)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0], "task")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tasks.Delete(context.Background(), id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted task #%d\n", id)
	return nil
}

func runTaskSearch(cmd *cobra.Command, args []string) error {
	projectID, err := parseIDArg(args[0], "project")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.tasks.Search(context.Background(), projectID, args[1])
	if err != nil {
		return err
	}

	printTaskList(fmt.Sprintf("Matches (%d)", len(tasks)), tasks)
	return nil
}

func runTaskOverdue(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var projectID *int64
	if cmd.Flags().Changed("project") {
		projectID = &overdueProject
	}

	tasks, err := a.tasks.Overdue(context.Background(), projectID)
	if err != nil {
		return err
	}

	printTaskList(fmt.Sprintf("Overdue (%d)", len(tasks)), tasks)
	return nil
}
