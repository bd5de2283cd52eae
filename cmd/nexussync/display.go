package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nexussync/collection"
	colsync "nexussync/collection/sync"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// printSyncSummary displays the outcome of one sync pass.
func printSyncSummary(name string, eng *colsync.Engine[collection.Dynamic], online bool) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("=== %s ===", name)))

	fmt.Printf("Records: %d\n", len(eng.Items()))

	if pending := eng.Pending(); pending > 0 {
		fmt.Printf("Pending changes: %s\n", pendingStyle.Render(fmt.Sprintf("%d", pending)))
	} else {
		fmt.Printf("Pending changes: 0\n")
	}

	switch {
	case !online:
		fmt.Println(warnStyle.Render("Skipped remote sync (offline)"))
	case eng.UpToDate():
		fmt.Println(okStyle.Render("✓ In sync with gateway"))
	default:
		fmt.Println(warnStyle.Render("Partially synced; deletions still pending"))
	}

	if err := eng.Err(); err != nil {
		fmt.Println(errStyle.Render(fmt.Sprintf("Last error: %v", err)))
	}
	fmt.Println()
}

// printRecords renders the local snapshot as a small table keyed on the
// collection's configured attributes.
func printRecords(spec recordColumns, items []collection.Dynamic) {
	if len(items) == 0 {
		fmt.Println(dimStyle.Render("(no records)"))
		return
	}

	cols := spec.columns()
	fmt.Println(headerStyle.Render(strings.Join(cols, "  ")))
	for _, item := range items {
		row := make([]string, 0, len(cols))
		for _, c := range cols {
			row = append(row, fmt.Sprintf("%v", item[c]))
		}
		line := strings.Join(row, "  ")
		if flagged, _ := item[collection.OfflineCreatedAttribute].(bool); flagged {
			line += "  " + pendingStyle.Render("(offline)")
		}
		fmt.Println(line)
	}
}

type recordColumns struct {
	id      string
	marker  string
	version string
	sample  collection.Dynamic
}

// columns picks the table columns: configured attributes first, then the
// remaining keys of the first record, alphabetically.
func (r recordColumns) columns() []string {
	var cols []string
	seen := map[string]bool{collection.OfflineCreatedAttribute: true}
	for _, c := range []string{r.id, r.version, r.marker} {
		if c != "" && !seen[c] {
			cols = append(cols, c)
			seen[c] = true
		}
	}

	var rest []string
	for k := range r.sample {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
