package dataflows

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

// missingCell is rendered for a column a row does not carry.
const missingCell = "NaN"

func (t *QuoteTable) Len() int {
	return len(t.Rows)
}

// Shape returns (rows, columns).
func (t *QuoteTable) Shape() (int, int) {
	return len(t.Rows), len(t.Columns)
}

// Size is the number of cells, rows * columns.
func (t *QuoteTable) Size() int {
	rows, cols := t.Shape()
	return rows * cols
}

// Value returns the cell at row i for column. ok is false when the row is
// out of range or does not carry the column.
func (t *QuoteTable) Value(i int, column string) (string, bool) {
	if i < 0 || i >= len(t.Rows) {
		return "", false
	}
	v, ok := t.Rows[i].Fields[column]
	return v, ok
}

// Head returns a table holding the first n rows.
func (t *QuoteTable) Head(n int) *QuoteTable {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return t.withRows(append([]Row(nil), t.Rows[:n]...))
}

// SortedByDate returns a copy with rows in ascending date order. Dates are
// ISO formatted, so lexical order is chronological.
func (t *QuoteTable) SortedByDate() *QuoteTable {
	rows := append([]Row(nil), t.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return t.withRows(rows)
}

func (t *QuoteTable) withRows(rows []Row) *QuoteTable {
	return &QuoteTable{
		Symbol:  t.Symbol,
		Columns: append([]string(nil), t.Columns...),
		Rows:    rows,
	}
}

// String renders the table as fixed-width text: a header of column names
// followed by one line per date.
func (t *QuoteTable) String() string {
	if len(t.Rows) == 0 {
		return fmt.Sprintf("Empty QuoteTable\nColumns: [%s]", strings.Join(t.Columns, ", "))
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "\t")
	for _, col := range t.Columns {
		fmt.Fprintf(w, "%s\t", col)
	}
	fmt.Fprintln(w)
	for _, row := range t.Rows {
		fmt.Fprintf(w, "%s\t", row.Date)
		for _, col := range t.Columns {
			fmt.Fprintf(w, "%s\t", row.cell(col))
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

func (r Row) cell(column string) string {
	if v, ok := r.Fields[column]; ok {
		return v
	}
	return missingCell
}

// Bars converts every row to a Bar. The table must carry the five standard
// daily columns.
func (t *QuoteTable) Bars() ([]Bar, error) {
	bars := make([]Bar, 0, len(t.Rows))
	for _, row := range t.Rows {
		bar, err := row.bar()
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", row.Date, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (r Row) bar() (Bar, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return Bar{}, fmt.Errorf("parse date %q: %w", r.Date, err)
	}
	open, err := r.decimalField("open", ColumnOpen)
	if err != nil {
		return Bar{}, err
	}
	high, err := r.decimalField("high", ColumnHigh)
	if err != nil {
		return Bar{}, err
	}
	low, err := r.decimalField("low", ColumnLow)
	if err != nil {
		return Bar{}, err
	}
	closePrice, err := r.decimalField("close", ColumnClose)
	if err != nil {
		return Bar{}, err
	}
	rawVolume, ok := r.Fields[ColumnVolume]
	if !ok {
		return Bar{}, fmt.Errorf("volume: %w", ErrMissingField)
	}
	volume, err := strconv.ParseInt(rawVolume, 10, 64)
	if err != nil {
		return Bar{}, fmt.Errorf("parse volume %q: %w", rawVolume, err)
	}

	return Bar{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

func (r Row) decimalField(name, column string) (decimal.Decimal, error) {
	raw, ok := r.Fields[column]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", name, ErrMissingField)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s %q: %w", name, raw, err)
	}
	return d, nil
}

// CloseStats returns the most recent close and the close range. Rows may be
// in any order; the latest one is picked by date.
func (t *QuoteTable) CloseStats() (CloseStats, error) {
	bars, err := t.Bars()
	if err != nil {
		return CloseStats{}, err
	}
	if len(bars) == 0 {
		return CloseStats{}, ErrNoRows
	}

	stats := CloseStats{
		LatestDate: bars[0].Date,
		Latest:     bars[0].Close,
		Min:        bars[0].Close,
		Max:        bars[0].Close,
	}
	for _, bar := range bars[1:] {
		if bar.Date.After(stats.LatestDate) {
			stats.LatestDate = bar.Date
			stats.Latest = bar.Close
		}
		if bar.Close.LessThan(stats.Min) {
			stats.Min = bar.Close
		}
		if bar.Close.GreaterThan(stats.Max) {
			stats.Max = bar.Close
		}
	}
	return stats, nil
}
