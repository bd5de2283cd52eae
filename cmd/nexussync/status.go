package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nexussync/connectivity"
)

// newStatusCmd creates the status command
func newStatusCmd(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status for all configured collections",
		Args:  cobra.NoArgs,
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

			probe := connectivity.NewProbe()
			online, reason := probe.Check(ctx, app.config.Gateway.URL)

			fmt.Println(headerStyle.Render(fmt.Sprintf("=== %s ===", app.config.GatewayName())))
			fmt.Printf("  URL:      %s\n", app.config.Gateway.URL)
			if online {
				fmt.Printf("  Network:  %s\n", okStyle.Render("reachable"))
			} else {
				fmt.Printf("  Network:  %s\n", errStyle.Render("unreachable ("+reason+")"))
			}
			fmt.Println()

			for i := range specs {
				spec := &specs[i]
				eng, closeStore, err := app.engineFor(spec, false)
				if err != nil {
					return err
				}
				if err := eng.Load(ctx); err != nil {
					closeStore()
					return err
				}

				fmt.Println(headerStyle.Render(spec.Name))
				fmt.Printf("  Records:   %d\n", len(eng.Items()))
				if pending := eng.Pending(); pending > 0 {
					fmt.Printf("  Pending:   %s\n", pendingStyle.Render(fmt.Sprintf("%d", pending)))
				} else {
					fmt.Printf("  Pending:   0\n")
				}
				if tombs := eng.Tombstones(); len(tombs) > 0 {
					fmt.Printf("  Deletions: %d awaiting sync\n", len(tombs))
				}
				closeStore()
			}
			return nil
		},
	}
}
