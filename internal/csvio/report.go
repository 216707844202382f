package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// WriteReviewReport writes the review entries as CSV with the columns
// Merchant,CurrentCategory,CountInThisRun, preserving the entries' order.
func WriteReviewReport(w io.Writer, entries []model.ReviewEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Merchant", "CurrentCategory", "CountInThisRun"}); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, e := range entries {
		record := []string{e.Merchant, e.CurrentCategory, strconv.Itoa(e.Count)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write report row for %q: %w", e.Merchant, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
