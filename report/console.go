// Package report renders a run summary on the terminal once a batch is done.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"user-flag/domain"
	"user-flag/observability"
)

// PrintAggregates renders the per-user table, sorted as provided.
func PrintAggregates(out io.Writer, aggregates []domain.UserAggregate) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"User ID", "Messages", "Avg Score"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, agg := range aggregates {
		table.Append([]string{
			agg.UserID,
			strconv.Itoa(agg.TotalMessages),
			fmt.Sprintf("%.4f", agg.AvgScore),
		})
	}
	table.Render()
}

// PrintSummary prints the run counters with a colored status line: green when
// everything succeeded, yellow when some rows were dropped.
func PrintSummary(metrics observability.PipelineMetrics, outputPath string) {
	if metrics.RowsFailed == 0 {
		color.Green.Printf("✔ %d/%d rows enriched", metrics.RowsSucceeded, metrics.RowsTotal)
	} else {
		color.Yellow.Printf("⚠ %d/%d rows enriched (%d failed)",
			metrics.RowsSucceeded, metrics.RowsTotal, metrics.RowsFailed)
	}
	color.Printf(" | %d users | %d retries | %dms\n",
		metrics.Users, metrics.RetriesTotal, metrics.ElapsedMs)
	fmt.Printf("Report written to %s\n", outputPath)
}
