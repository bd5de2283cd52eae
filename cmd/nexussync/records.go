package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newRecordsCmd creates the records command
func newRecordsCmd(getApp func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "records <collection>",
		Short: "List the local snapshot of a collection",
		Long: `List the locally persisted records of a collection without contacting
the gateway. Records created offline and not yet pushed are marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			spec, err := app.findCollection(args[0])
			if err != nil {
				return err
			}

			eng, closeStore, err := app.engineFor(spec, false)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := eng.Load(ctx); err != nil {
				return err
			}

			items := eng.Items()
			fmt.Println(headerStyle.Render(fmt.Sprintf("=== %s (%d records) ===", spec.Name, len(items))))

			cols := recordColumns{
				id:      spec.IDAttribute,
				marker:  spec.ModificationAttribute,
				version: spec.VersionAttribute,
			}
			if len(items) > 0 {
				cols.sample = items[0]
			}
			printRecords(cols, items)

			if tombs := eng.Tombstones(); len(tombs) > 0 {
				fmt.Println(dimStyle.Render(fmt.Sprintf("%d deletion(s) awaiting sync: %v", len(tombs), tombs)))
			}
			return nil
		},
	}
}
