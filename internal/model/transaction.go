package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRow is a single statement row as delivered by an extraction
// layer (activity CSV, OFX import). The resolver only reads RawMerchant and
// CSVCategory; the rest travels along for reporting and run history.
type TransactionRow struct {
	Date        time.Time
	RawMerchant string
	Amount      decimal.Decimal
	// CSVCategory is the category the source file already carried, if any.
	CSVCategory string
	Notes       string
}

// Hash returns a stable fingerprint for duplicate detection across runs.
func (t *TransactionRow) Hash() string {
	data := fmt.Sprintf("%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.RawMerchant)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}
