package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studymate/internal/config"
	"studymate/internal/lifecycle"
	"studymate/internal/reminder"
	"studymate/internal/storage"
	"studymate/internal/task"
	"studymate/internal/timeutil"
	"studymate/internal/ui"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "studymate",
		Short: "StudyMate - personal study task tracker",
		Long: `StudyMate tracks study tasks with dates, priorities and categories,
shows progress statistics and a timeline, and reminds you before tasks fall due.

Run without a subcommand to open the interactive tracker.`,
		RunE:          runTracker,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default $STUDYMATE_CONFIG or user config dir)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(remindCmd)
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// app is the wired core shared by every command.
type app struct {
	cfg    config.Config
	db     *storage.Store
	tasks  *task.Store
	oracle timeutil.Oracle
	ctl    *lifecycle.Controller
	sched  *reminder.Scheduler
}

func openApp() (*app, error) {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	tasks := task.NewStore(db, cfg.StorageKey)
	tasks.Load()

	oracle := timeutil.New(nil)
	return &app{
		cfg:    cfg,
		db:     db,
		tasks:  tasks,
		oracle: oracle,
		ctl:    lifecycle.New(tasks, oracle, lifecycle.WithFilter(cfg.Filter())),
		sched:  reminder.New(tasks, oracle, reminder.WithReload()),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func runTracker(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return ui.Run(a.ctl, a.sched, a.oracle, a.cfg)
}
