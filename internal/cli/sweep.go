package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Close all overdue tasks",
	Long: `Close every task whose deadline has passed and that is not done.
The sweep is idempotent: running it twice closes nothing new.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.sweeper.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("✓ %d overdue task(s) closed\n", count)
	return nil
}
