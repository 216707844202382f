// Package csvio reads activity CSV files into transaction rows and writes
// the review report. Column names vary by bank export, so headers are
// detected from a candidate list rather than fixed positions.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// Header candidates per logical column, tried in order, case-insensitive.
var (
	descriptionCols = []string{"description", "merchant", "payee", "name"}
	amountCols      = []string{"amount", "value"}
	dateCols        = []string{"date", "transaction date", "transaction_date", "posted date"}
	categoryCols    = []string{"category"}
	notesCols       = []string{"notes", "memo"}
)

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
}

// Columns records which physical CSV headers were mapped to the logical
// columns. Description is the only mandatory mapping.
type Columns struct {
	Description string
	Amount      string
	Date        string
	Category    string
	Notes       string
}

// ReadActivity parses an activity CSV into transaction rows. Rows with an
// empty description are skipped; unparseable amounts and dates degrade to
// zero values with a warning rather than failing the run.
func ReadActivity(r io.Reader) ([]model.TransactionRow, Columns, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, Columns{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	stripBOM(header)

	cols := Columns{
		Description: pickColumn(header, descriptionCols),
		Amount:      pickColumn(header, amountCols),
		Date:        pickColumn(header, dateCols),
		Category:    pickColumn(header, categoryCols),
		Notes:       pickColumn(header, notesCols),
	}
	if cols.Description == "" {
		return nil, cols, fmt.Errorf("activity CSV has no description column (headers: %s)", strings.Join(header, ", "))
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || col == "" || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []model.TransactionRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, cols, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		raw := field(record, cols.Description)
		if raw == "" {
			continue
		}

		row := model.TransactionRow{
			RawMerchant: raw,
			CSVCategory: field(record, cols.Category),
			Notes:       field(record, cols.Notes),
		}

		if s := field(record, cols.Amount); s != "" {
			amount, err := parseAmount(s)
			if err != nil {
				slog.Warn("unparseable amount", "line", line, "value", s)
			} else {
				row.Amount = amount
			}
		}

		if s := field(record, cols.Date); s != "" {
			date, err := parseDate(s)
			if err != nil {
				slog.Warn("unparseable date", "line", line, "value", s)
			} else {
				row.Date = date
			}
		}

		rows = append(rows, row)
	}

	return rows, cols, nil
}

func pickColumn(header []string, candidates []string) string {
	lower := make(map[string]string, len(header))
	for _, h := range header {
		lower[strings.ToLower(strings.TrimSpace(h))] = h
	}
	for _, cand := range candidates {
		if h, ok := lower[cand]; ok {
			return h
		}
	}
	return ""
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	// Accounting-style negatives: (12.34)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// stripBOM removes a UTF-8 byte order mark from the first header cell,
// which Excel exports routinely carry.
func stripBOM(header []string) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
}
