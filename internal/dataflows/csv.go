package dataflows

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteTableCSV writes t under basePath/csv/<symbol>/ and returns the file
// path. The first column is the date; the rest follow t.Columns.
func WriteTableCSV(basePath, symbol string, t *QuoteTable) (string, error) {
	symbol = NormalizeSymbol(symbol)
	dirPath := filepath.Join(basePath, "csv", symbol)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filename := fmt.Sprintf("%s_daily_%d_rows_%s.csv",
		symbol, t.Len(), time.Now().Format("20060102_150405"))
	filePath := filepath.Join(dirPath, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := append([]string{"date"}, t.Columns...)
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}

	for _, row := range t.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, row.Date)
		for _, col := range t.Columns {
			record = append(record, row.Fields[col])
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return filePath, nil
}
