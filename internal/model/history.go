package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunSummary describes one recorded categorization run.
type RunSummary struct {
	StartedAt   time.Time
	SourceFile  string
	ID          int64
	Total       int
	Categorized int
	NeedsReview int
	NewStubs    int
}

// StoredOutcome is a resolution outcome as persisted in run history,
// joined with the activity row it was resolved from.
type StoredOutcome struct {
	Date           time.Time
	RawMerchant    string
	CanonicalPayee string
	Category       string
	Source         ResolutionSource
	Hash           string
	Amount         decimal.Decimal
	NeedsReview    bool
}
