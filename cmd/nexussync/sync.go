package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nexussync/connectivity"
	"nexussync/internal/config"
)

// newSyncCmd creates the sync command
func newSyncCmd(getApp func() *App) *cobra.Command {
	var offline bool

	syncCmd := &cobra.Command{
		Use:   "sync [collection]",
		Short: "Synchronize collections with the remote gateway",
		Long: `Synchronize the local snapshot with the remote gateway.

Each sync session fetches the remote collection, three-way diffs it against
the local snapshot and the offline-deletion list, then flushes pending
deletes, creates, and edits back to the gateway in that order.

Examples:
  nexussync sync              # Sync every configured collection
  nexussync sync notes        # Sync one collection
  nexussync sync --offline    # Skip the gateway, just load local data`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			specs, err := app.collections()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				spec, err := app.findCollection(args[0])
				if err != nil {
					return err
				}
				specs = []config.CollectionSpec{*spec}
			}

			online := false
			if !offline {
				var reason string
				probe := connectivity.NewProbe()
				if online, reason = probe.Check(ctx, app.config.Gateway.URL); !online {
					fmt.Printf("⚠ Offline mode: %s\n", reason)
					fmt.Println("Working with local snapshots. Changes will be synced when online.")
				}
			}

			for i := range specs {
				if err := syncOne(ctx, app, &specs[i], online); err != nil {
					return err
				}
			}
			return nil
		},
	}

	syncCmd.Flags().BoolVar(&offline, "offline", false, "Do not contact the gateway")

	return syncCmd
}

func syncOne(ctx context.Context, app *App, spec *config.CollectionSpec, online bool) error {
	eng, closeStore, err := app.engineFor(spec, online)
	if err != nil {
		return err
	}
	defer closeStore()

	if online {
		// The offline→online edge starts the sync session; data has not
		// been loaded yet, so the refresh always fires.
		eng.SetOnline(ctx, true)
	} else if err := eng.Load(ctx); err != nil {
		return fmt.Errorf("loading %s: %w", spec.Name, err)
	}

	printSyncSummary(spec.Name, eng, online)
	return nil
}
