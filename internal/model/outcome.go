package model

// ResolutionSource indicates which precedence level produced an outcome.
type ResolutionSource string

// Resolution source constants, in precedence order.
const (
	SourceCSVProvided  ResolutionSource = "csv-provided"
	SourcePatternMatch ResolutionSource = "pattern-match"
	SourceExactMatch   ResolutionSource = "exact-match"
	SourceFallback     ResolutionSource = "fallback-uncategorized"
)

// ResolutionOutcome is the result of resolving a single merchant string
// occurrence. It is never persisted itself; the mutator folds it back into
// the rule store and the aggregator groups outcomes into review entries.
type ResolutionOutcome struct {
	RawMerchant    string
	CanonicalPayee string
	// Category is empty when the merchant resolved to a stub with no
	// decided category.
	Category string
	Source   ResolutionSource
	// IsNewStub is set when the merchant was unseen and a stub exact rule
	// must be created for it.
	IsNewStub bool
	// NeedsReview is set when the resolved category is absent or the
	// Uncategorized sentinel.
	NeedsReview bool
	// Note carries a human-readable remark, e.g. that a CSV-supplied
	// category overwrote an existing rule.
	Note string
}

// ReviewEntry aggregates the outcomes of one run that still need a human
// decision, keyed by canonical payee.
type ReviewEntry struct {
	Merchant        string
	CurrentCategory string
	Count           int
}
