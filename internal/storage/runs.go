package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgermatch/ledgermatch/internal/model"
)

// CountKnownHashes reports how many of the given rows were already recorded
// by an earlier run, by transaction hash. Used to warn when a statement file
// is categorized twice.
func (s *RunStore) CountKnownHashes(ctx context.Context, rows []model.TransactionRow) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	stmt, err := s.db.PrepareContext(ctx, `SELECT COUNT(*) FROM run_outcomes WHERE hash = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare hash lookup: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	known := 0
	for _, row := range rows {
		var n int
		if err := stmt.QueryRowContext(ctx, row.Hash()).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to look up hash for %q: %w", row.RawMerchant, err)
		}
		if n > 0 {
			known++
		}
	}
	return known, nil
}

// RecordRun saves one categorization run and its per-transaction outcomes.
// rows and outcomes must be parallel slices: outcomes[i] is the resolution of
// rows[i]. Returns the new run's ID.
func (s *RunStore) RecordRun(ctx context.Context, sourceFile string, rows []model.TransactionRow, outcomes []model.ResolutionOutcome) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(sourceFile, "sourceFile"); err != nil {
		return 0, err
	}
	if len(rows) != len(outcomes) {
		return 0, fmt.Errorf("%w: %d outcomes for %d rows", ErrMismatchedRows, len(outcomes), len(rows))
	}

	var categorized, needsReview, newStubs int
	for _, o := range outcomes {
		if o.Category != "" && o.Category != model.Uncategorized {
			categorized++
		}
		if o.NeedsReview {
			needsReview++
		}
		if o.IsNewStub {
			newStubs++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, source_file, total, categorized, needs_review, new_stubs)
		VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), sourceFile, len(rows), categorized, needsReview, newStubs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_outcomes (run_id, date, raw_merchant, canonical_payee, category, source, amount, hash, needs_review)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, o := range outcomes {
		row := rows[i]
		if _, err := stmt.ExecContext(ctx,
			runID, row.Date.UTC(), o.RawMerchant, o.CanonicalPayee,
			o.Category, string(o.Source), row.Amount.String(), row.Hash(), o.NeedsReview); err != nil {
			return 0, fmt.Errorf("failed to insert outcome for %q: %w", o.RawMerchant, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns
// all runs.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, started_at, source_file, total, categorized, needs_review, new_stubs
		FROM runs
		ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.SourceFile, &r.Total, &r.Categorized, &r.NeedsReview, &r.NewStubs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}

// RunOutcomes returns the stored outcomes of one run in insertion order.
func (s *RunStore) RunOutcomes(ctx context.Context, runID int64) ([]model.StoredOutcome, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, raw_merchant, canonical_payee, category, source, amount, hash, needs_review
		FROM run_outcomes
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var outcomes []model.StoredOutcome
	for rows.Next() {
		var (
			o      model.StoredOutcome
			source string
			amount string
		)
		if err := rows.Scan(&o.Date, &o.RawMerchant, &o.CanonicalPayee, &o.Category, &source, &amount, &o.Hash, &o.NeedsReview); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Source = model.ResolutionSource(source)
		o.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outcomes: %w", err)
	}

	return outcomes, nil
}

// PayeeHistory returns how a canonical payee was categorized across all
// recorded runs, most recent first.
func (s *RunStore) PayeeHistory(ctx context.Context, canonicalPayee string, limit int) ([]model.StoredOutcome, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(canonicalPayee, "canonicalPayee"); err != nil {
		return nil, err
	}

	query := `
		SELECT date, raw_merchant, canonical_payee, category, source, amount, hash, needs_review
		FROM run_outcomes
		WHERE canonical_payee = ?
		ORDER BY id DESC`
	args := []any{canonicalPayee}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payee history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var outcomes []model.StoredOutcome
	for rows.Next() {
		var (
			o      model.StoredOutcome
			source string
			amount string
		)
		if err := rows.Scan(&o.Date, &o.RawMerchant, &o.CanonicalPayee, &o.Category, &source, &amount, &o.Hash, &o.NeedsReview); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Source = model.ResolutionSource(source)
		o.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payee history: %w", err)
	}

	return outcomes, nil
}
