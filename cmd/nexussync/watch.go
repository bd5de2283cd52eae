package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"nexussync/connectivity"
	"nexussync/internal/tui"
)

const (
	defaultProbeInterval = 15 * time.Second
	statusSampleInterval = 500 * time.Millisecond
)

// newWatchCmd creates the watch command
func newWatchCmd(getApp func() *App) *cobra.Command {
	var probeInterval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <collection>",
		Short: "Watch a collection and sync continuously",
		Long: `Watch a collection in an interactive view. The gateway is probed
periodically and the collection refreshes on every offline-to-online
transition. Press q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()

			spec, err := app.findCollection(args[0])
			if err != nil {
				return err
			}

			eng, closeStore, err := app.engineFor(spec, true)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if err := eng.Load(ctx); err != nil {
				return err
			}

			tracker := connectivity.NewTracker()
			states := tracker.Subscribe()
			go func() {
				defer tracker.Close()
				probe := connectivity.NewProbe()
				ticker := time.NewTicker(probeInterval)
				defer ticker.Stop()
				for {
					online, _ := probe.Check(ctx, app.config.Gateway.URL)
					tracker.Set(online)
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
					}
				}
			}()

			go func() {
				_ = eng.Run(ctx, states)
			}()

			updates := make(chan tui.Status)
			go func() {
				defer close(updates)
				ticker := time.NewTicker(statusSampleInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
					}
					status := tui.Status{
						Collection: spec.Name,
						Phase:      eng.Phase(),
						Records:    len(eng.Items()),
						Pending:    eng.Pending(),
						Online:     eng.Online(),
						UpToDate:   eng.UpToDate(),
						Err:        eng.Err(),
					}
					select {
					case <-ctx.Done():
						return
					case updates <- status:
					}
				}
			}()

			return tui.Run(updates)
		},
	}

	cmd.Flags().DurationVar(&probeInterval, "probe-interval", defaultProbeInterval, "How often to probe the gateway")

	return cmd
}
