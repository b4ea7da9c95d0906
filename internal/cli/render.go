package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	todoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	doingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// renderStatus returns a colored status label, flagging overdue tasks.
func renderStatus(t model.Task) string {
	if t.IsOverdue(time.Now()) {
		return overdueStyle.Render(string(t.Status) + " (overdue)")
	}
	switch t.Status {
	case model.StatusDone:
		return doneStyle.Render(string(t.Status))
	case model.StatusDoing:
		return doingStyle.Render(string(t.Status))
	default:
		return todoStyle.Render(string(t.Status))
	}
}

func printProject(p model.Project, taskCount int) {
	desc := p.Description
	if desc == "" {
		desc = dimStyle.Render("(no description)")
	}
	fmt.Printf("  #%-4d %s  %s  %s\n",
		p.ID, headerStyle.Render(p.Name), desc, dimStyle.Render(fmt.Sprintf("%d task(s)", taskCount)))
}

func printTask(t model.Task) {
	deadline := ""
	if t.Deadline != nil {
		deadline = "due " + t.Deadline.String()
	}
	fmt.Printf("  #%-4d %-12s %s  %s\n",
		t.ID, renderStatus(t), truncate(t.Title, 48), dimStyle.Render(deadline))
}

func printTaskList(header string, tasks []model.Task) {
	fmt.Println(headerStyle.Render(header))
	fmt.Println(strings.Repeat("─", 60))
	if len(tasks) == 0 {
		fmt.Println(dimStyle.Render("  (none)"))
		return
	}
	for _, t := range tasks {
		printTask(t)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
