package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// WriteActivity writes activity rows as CSV in the column layout ReadActivity
// accepts, so converted statements feed straight back into categorization.
func WriteActivity(w io.Writer, rows []model.TransactionRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Date", "Description", "Amount", "Category", "Notes"}); err != nil {
		return fmt.Errorf("failed to write activity header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.RawMerchant,
			row.Amount.String(),
			row.CSVCategory,
			row.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write activity row for %q: %w", row.RawMerchant, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
