package model

import "github.com/shopspring/decimal"

// MatchKind distinguishes how a pair was matched.
type MatchKind string

const (
	MatchExact MatchKind = "EXACT"
	MatchFuzzy MatchKind = "FUZZY"
)

// MatchPair associates one bank transaction with one books transaction.
// Immutable once created by the engine.
type MatchPair struct {
	Bank           Transaction
	Books          Transaction
	Kind           MatchKind
	DateOffsetDays int             // books date minus bank date
	AmountDelta    decimal.Decimal // books amount minus bank amount
}

// CategorizedTransaction is an unmatched transaction with its assigned
// category. OutstandingCheck is only ever set on books-only records.
type CategorizedTransaction struct {
	Transaction
	Category         string
	OutstandingCheck bool
}
