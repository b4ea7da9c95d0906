package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/apperr"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, update, search, and delete projects.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project",
	Long: `Create a new project.

Examples:
  taskdeck project new "Website Redesign"
  taskdeck project new "Ops" --description "Runbooks and on-call duties"`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectNew,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects",
	RunE:    runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update [project-id]",
	Short: "Update a project's name or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectUpdate,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all of its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

var projectSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search projects by name or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectSearch,
}

var (
	projectDescription string
	projectNewName     string
)

func init() {
	projectNewCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectUpdateCmd.Flags().StringVarP(&projectNewName, "name", "n", "", "New project name")
	projectUpdateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "New project description")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectSearchCmd)
}

func parseIDArg(arg, kind string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s id %q", apperr.ErrInvalidID, kind, arg)
	}
	return id, nil
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	project, err := a.projects.Create(context.Background(), args[0], projectDescription)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created project #%d: %q\n", project.ID, project.Name)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	projects, err := a.projects.List(ctx)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Println("No projects yet. Create one with: taskdeck project new \"Name\"")
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Projects (%d)", len(projects))))
	for _, p := range projects {
		count, err := a.tasks.Count(ctx, p.ID)
		if err != nil {
			return err
		}
		printProject(p, count)
	}
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0], "project")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	project, err := a.projects.Get(ctx, id)
	if err != nil {
		return err
	}
	tasks, err := a.tasks.ListByProject(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", headerStyle.Render(fmt.Sprintf("#%d %s", project.ID, project.Name)))
	if project.Description != "" {
		fmt.Println(project.Description)
	}
	fmt.Println()
	printTaskList(fmt.Sprintf("Tasks (%d)", len(tasks)), tasks)
	return nil
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0], "project")
	if err != nil {
		return err
	}

	var name, description *string
	if cmd.Flags().Changed("name") {
		name = &projectNewName
	}
	if cmd.Flags().Changed("description") {
		description = &projectDescription
	}
	if name == nil && description == nil {
		return fmt.Errorf("nothing to update: pass --name and/or --description")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	project, err := a.projects.Update(context.Background(), id, name, description)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated project #%d: %q\n", project.ID, project.Name)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	id, err := parseIDArg(args[0], "project")
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.projects.Delete(context.Background(), id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted project #%d and its tasks\n", id)
	return nil
}

func runProjectSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	projects, err := a.projects.Search(ctx, args[0])
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Printf("No projects matching %q\n", args[0])
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Matches (%d)", len(projects))))
	for _, p := range projects {
		count, err := a.tasks.Count(ctx, p.ID)
		if err != nil {
			return err
		}
		printProject(p, count)
	}
	return nil
}
