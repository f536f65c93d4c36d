// Package report renders schedule snapshots as plain text for the CLI host.
// It consumes the engine's read-only rows and knows nothing about how they
// were computed.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vmelnyk/planweave/internal/engine"
)

// Write renders the schedule as an aligned table followed by the project
// duration and the critical path. Critical activities are marked with an
// asterisk after their id.
func Write(w io.Writer, rows []engine.Row, projectDuration int, criticalPath []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tDUR\tES\tEF\tLS\tLF\tSLACK\tPRED\tSUCC")
	for _, row := range rows {
		id := row.ID
		if row.Critical() {
			id += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			id,
			row.Name,
			row.Start.Format(engine.StartLayout),
			row.End.Format(engine.StartLayout),
			row.Duration,
			row.EarlyStart,
			row.EarlyFinish,
			row.LateStart,
			row.LateFinish,
			row.Slack,
			idList(row.Predecessors),
			idList(row.Successors),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nProject duration: %d days\n", projectDuration)
	if len(criticalPath) > 0 {
		fmt.Fprintf(w, "Critical path: %s\n", strings.Join(criticalPath, " -> "))
	}
	return nil
}

// WriteWarnings renders recoverable conditions, one per line.
func WriteWarnings(w io.Writer, warnings []engine.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func idList(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ";")
}
