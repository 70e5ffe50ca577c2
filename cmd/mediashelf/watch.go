package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediashelf/internal/events"
	"github.com/vmunix/mediashelf/internal/scan"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan once, then rescan when the library changes",
	Long: `Scan once, then rescan when the library changes.

Watches the configured roots with inotify and triggers a rescan after
the filesystem has been quiet for the debounce period. Runs until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	bus := events.NewBus(logger.With("component", "bus"))
	defer bus.Close()
	stopProgress := printProgress(bus)
	defer stopProgress()

	runner, cleanup, err := buildRunner(cfg, logger, bus)
	if err != nil {
		return err
	}
	defer cleanup()

	watcher := scan.NewWatcher(runner, cfg.Scan.Roots,
		scan.WithDebounce(cfg.Scan.WatchDebounce.Duration()),
		scan.WithWatchLogger(logger.With("component", "watch")))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = watcher.Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
