package dataflows

import (
	"fmt"
	"io"
	"log/slog"
)

// DisplayTable writes the first rows of t followed by its shape statistics
// and, when every row converts cleanly, a summary of the close column.
// It is a diagnostic aid; nothing in the pipeline depends on its output.
func DisplayTable(w io.Writer, t *QuoteTable) {
	rows, cols := t.Shape()

	fmt.Fprintln(w, t.Head(5).String())
	fmt.Fprintf(w, "Table shape (rows, columns): (%d, %d)\n", rows, cols)
	fmt.Fprintf(w, "Total number of elements: %d\n", t.Size())
	fmt.Fprintf(w, "Number of rows: %d\n", rows)
	fmt.Fprintf(w, "Number of columns: %d\n", cols)

	stats, err := t.CloseStats()
	if err != nil {
		slog.Debug("close summary skipped", "symbol", t.Symbol, "error", err)
		return
	}
	fmt.Fprintf(w, "Latest close (%s): %s\n", stats.LatestDate.Format("2006-01-02"), stats.Latest)
	fmt.Fprintf(w, "Close range: %s - %s\n", stats.Min, stats.Max)
}
