// Package recon implements the reconciliation core: the two-pass matching
// engine, the description classifier, and the summary aggregator. The
// package is pure — no I/O, no mutation of caller inputs.
package recon

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/model"
)

// Config holds the matching tolerances.
type Config struct {
	MatchThreshold decimal.Decimal // max absolute amount delta for a fuzzy match
	DateWindow     int             // max absolute date offset in days for a fuzzy match
}

// DefaultConfig returns the standard tolerances: one cent, three days.
func DefaultConfig() Config {
	return Config{
		MatchThreshold: decimal.NewFromFloat(0.01),
		DateWindow:     3,
	}
}

// ConfigError reports an invalid tolerance. It is a usage error, raised
// before any matching occurs.
type ConfigError struct {
	Field string
	Value string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s (must be >= 0)", e.Field, e.Value)
}

// RecordError reports a transaction that violates the debit/credit
// invariant. Such rows are excluded from matching; the run continues.
type RecordError struct {
	Source model.Source
	Row    int // zero-based position in the input sequence
	Txn    model.Transaction
	Reason string
}

func (e RecordError) Error() string {
	return fmt.Sprintf("%s row %d (%s): %s", e.Source, e.Row, e.Txn.Description, e.Reason)
}

// Result is the output of one reconciliation run. Every valid input
// transaction lands in exactly one of Pairs, BankOnly, or BooksOnly;
// malformed rows are carried in RecordErrors instead.
type Result struct {
	Pairs        []model.MatchPair
	BankOnly     []model.CategorizedTransaction
	BooksOnly    []model.CategorizedTransaction
	RecordErrors []RecordError
}

// Reconcile pairs bank transactions with books transactions under the
// configured tolerances.
//
// Two passes, both greedy and first-fit: an exact pass (same date, zero
// amount delta) followed by a fuzzy pass (within DateWindow days and
// MatchThreshold on both amount columns). Candidates are scanned in input
// order and the first qualifying books transaction wins; re-running with
// the same inputs always yields the same pairing. Inputs are not mutated.
func Reconcile(bank, books []model.Transaction, cfg Config) (*Result, error) {
	if cfg.MatchThreshold.IsNegative() {
		return nil, ConfigError{Field: "match_threshold", Value: cfg.MatchThreshold.String()}
	}
	if cfg.DateWindow < 0 {
		return nil, ConfigError{Field: "date_window", Value: fmt.Sprintf("%d", cfg.DateWindow)}
	}

	res := &Result{}

	bankIdx := screen(bank, model.SourceBank, res)
	booksIdx := screen(books, model.SourceBooks, res)

	bankMatched := make([]bool, len(bank))
	booksMatched := make([]bool, len(books))

	// Exact pass: same date, zero delta on both columns.
	matchPass(bank, books, bankIdx, booksIdx, bankMatched, booksMatched, res, model.MatchExact,
		func(b, k model.Transaction) bool {
			return sameDate(b.Date, k.Date) && b.Debit.Equal(k.Debit) && b.Credit.Equal(k.Credit)
		})

	// Fuzzy pass over the remainder.
	matchPass(bank, books, bankIdx, booksIdx, bankMatched, booksMatched, res, model.MatchFuzzy,
		func(b, k model.Transaction) bool {
			if abs(daysBetween(b.Date, k.Date)) > cfg.DateWindow {
				return false
			}
			return b.Debit.Sub(k.Debit).Abs().LessThanOrEqual(cfg.MatchThreshold) &&
				b.Credit.Sub(k.Credit).Abs().LessThanOrEqual(cfg.MatchThreshold)
		})

	for _, i := range bankIdx {
		if !bankMatched[i] {
			res.BankOnly = append(res.BankOnly, categorize(bank[i], false))
		}
	}
	for _, j := range booksIdx {
		if !booksMatched[j] {
			res.BooksOnly = append(res.BooksOnly, categorize(books[j], true))
		}
	}

	return res, nil
}

// screen validates each transaction, recording RecordErrors for malformed
// rows and returning the indices of the valid ones.
func screen(txns []model.Transaction, src model.Source, res *Result) []int {
	valid := make([]int, 0, len(txns))
	for i, t := range txns {
		if err := t.Validate(); err != nil {
			res.RecordErrors = append(res.RecordErrors, RecordError{
				Source: src,
				Row:    i,
				Txn:    t,
				Reason: err.Error(),
			})
			continue
		}
		valid = append(valid, i)
	}
	return valid
}

func matchPass(bank, books []model.Transaction, bankIdx, booksIdx []int,
	bankMatched, booksMatched []bool, res *Result, kind model.MatchKind,
	qualifies func(b, k model.Transaction) bool) {
	for _, i := range bankIdx {
		if bankMatched[i] {
			continue
		}
		for _, j := range booksIdx {
			if booksMatched[j] {
				continue
			}
			if !qualifies(bank[i], books[j]) {
				continue
			}
			bankMatched[i] = true
			booksMatched[j] = true
			res.Pairs = append(res.Pairs, model.MatchPair{
				Bank:           bank[i],
				Books:          books[j],
				Kind:           kind,
				DateOffsetDays: daysBetween(bank[i].Date, books[j].Date),
				AmountDelta:    books[j].Amount().Sub(bank[i].Amount()),
			})
			break
		}
	}
}

func categorize(t model.Transaction, books bool) model.CategorizedTransaction {
	ct := model.CategorizedTransaction{
		Transaction: t,
		Category:    Categorize(t),
	}
	if books {
		ct.OutstandingCheck = IsOutstandingCheck(t, ct.Category)
	}
	return ct
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// daysBetween returns b - a in whole days. Dates are normalized to
// midnight UTC by the normalizer, so the division is exact.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
