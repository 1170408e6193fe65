package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"studymate/internal/notify"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Watch tasks and print reminders until interrupted",
	Long: `Runs the reminder scan on the configured interval without the interactive
tracker, printing due-soon and overdue reminders as they fire.`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

func runRemind(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	interval, err := a.cfg.Interval()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %d tasks every %s (Ctrl+C to stop)\n", a.tasks.Len(), interval)
	err = a.sched.Run(ctx, interval,
		func(n notify.Notification) { fmt.Fprintln(out, n.String()) },
		func(err error) { log.Printf("Warning: %v", err) },
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
