package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediashelf/internal/events"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan library roots and refresh the catalog",
	Long: `Scan library roots and refresh the catalog.

Walks every configured root, matches discovered series against the
metadata providers, downloads artwork, and replaces the catalog in
one step. Ctrl-C aborts between units; the previous catalog stays
intact until a scan finishes.`,
	Args: cobra.NoArgs,
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runner.Run(ctx, cfg.Scan.Roots)
}

// printProgress echoes resolution events to stdout until the returned
// stop function is called.
func printProgress(bus *events.Bus) func() {
	ch := bus.SubscribeAll(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range ch {
			if jsonOutput {
				printJSON(e)
				continue
			}
			switch ev := e.(type) {
			case *events.SeriesResolved:
				fmt.Printf("  %-40s %s (%d episodes)\n", ev.Title, ev.Provider, ev.Episodes)
			case *events.SeriesLocalOnly:
				fmt.Printf("  %-40s local only\n", ev.Title)
			case *events.ScanCompleted:
				fmt.Printf("scan complete: %d units, %d records\n", ev.Units, ev.Records)
			}
		}
	}()
	return func() {
		bus.Unsubscribe(ch)
		<-done
	}
}
