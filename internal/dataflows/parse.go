package dataflows

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Keys Alpha Vantage uses to explain an empty answer, in priority order.
var providerMessageKeys = []string{"Error Message", "Information", "Note"}

// ParseDailySeries turns a TIME_SERIES_DAILY body into a QuoteTable. Each
// key of the daily series becomes a row and each inner key a column, in the
// order they appear in the document.
func ParseDailySeries(body []byte) (*QuoteTable, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	raw, ok := envelope[DailySeriesKey]
	if !ok {
		return nil, &APIError{Message: providerMessage(envelope)}
	}

	table, err := decodeSeries(raw)
	if err != nil {
		return nil, err
	}
	table.Symbol = metaSymbol(envelope)
	return table, nil
}

func decodeSeries(raw json.RawMessage) (*QuoteTable, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	table := &QuoteTable{}
	columns := make(map[string]struct{})
	rowIndex := make(map[string]int)

	err := walkObject(dec, func(date string) error {
		fields := make(map[string]string)
		err := walkObject(dec, func(field string) error {
			var v any
			if err := dec.Decode(&v); err != nil {
				return err
			}
			if _, seen := columns[field]; !seen {
				columns[field] = struct{}{}
				table.Columns = append(table.Columns, field)
			}
			fields[field] = cellText(v)
			return nil
		})
		if err != nil {
			return err
		}

		// A repeated date keeps its first position and its last values.
		if i, seen := rowIndex[date]; seen {
			table.Rows[i].Fields = fields
			return nil
		}
		rowIndex[date] = len(table.Rows)
		table.Rows = append(table.Rows, Row{Date: date, Fields: fields})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSeries, err)
	}

	return table, nil
}

// walkObject consumes one JSON object from dec, calling fn for every key
// with the decoder positioned at the key's value. fn must consume the value.
func walkObject(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}

	// closing '}'
	_, err = dec.Token()
	return err
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func providerMessage(envelope map[string]json.RawMessage) string {
	for _, key := range providerMessageKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return ""
}

func metaSymbol(envelope map[string]json.RawMessage) string {
	raw, ok := envelope["Meta Data"]
	if !ok {
		return ""
	}
	var meta map[string]string
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ""
	}
	return meta["2. Symbol"]
}
