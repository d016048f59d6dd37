package recon

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/model"
)

// CategorySummary is the rolled-up amount for one category within a
// partition.
type CategorySummary struct {
	Category string
	Count    int
	Amount   decimal.Decimal // summed debits + credits
}

// PartitionSummary holds totals for one result partition. Empty partitions
// yield zero values.
type PartitionSummary struct {
	Count        int
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	NetImpact    decimal.Decimal // credits - debits
	Categories   []CategorySummary
}

// Summary is the aggregate view of a reconciliation run, one block per
// partition. Matched totals are taken from the bank side of each pair and
// carry no category breakdown (only unmatched records are categorized).
type Summary struct {
	Matched   PartitionSummary
	BankOnly  PartitionSummary
	BooksOnly PartitionSummary
}

// Summarize folds a finished Result into per-partition totals and
// per-category breakdowns. Inputs are not modified.
func Summarize(res *Result) Summary {
	matched := make([]model.CategorizedTransaction, 0, len(res.Pairs))
	for _, p := range res.Pairs {
		matched = append(matched, model.CategorizedTransaction{Transaction: p.Bank})
	}

	return Summary{
		Matched:   summarizePartition(matched, false),
		BankOnly:  summarizePartition(res.BankOnly, true),
		BooksOnly: summarizePartition(res.BooksOnly, true),
	}
}

func summarizePartition(txns []model.CategorizedTransaction, categorized bool) PartitionSummary {
	s := PartitionSummary{
		Count:        len(txns),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		NetImpact:    decimal.Zero,
	}

	byCategory := make(map[string]*CategorySummary)
	for _, t := range txns {
		s.TotalDebits = s.TotalDebits.Add(t.Debit)
		s.TotalCredits = s.TotalCredits.Add(t.Credit)

		if !categorized {
			continue
		}
		cs, ok := byCategory[t.Category]
		if !ok {
			cs = &CategorySummary{Category: t.Category, Amount: decimal.Zero}
			byCategory[t.Category] = cs
		}
		cs.Count++
		cs.Amount = cs.Amount.Add(t.Amount())
	}
	s.NetImpact = s.TotalCredits.Sub(s.TotalDebits)

	for _, cs := range byCategory {
		s.Categories = append(s.Categories, *cs)
	}
	// Largest amounts first; name breaks ties so output is reproducible.
	sort.Slice(s.Categories, func(i, j int) bool {
		a, b := s.Categories[i], s.Categories[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	return s
}

// OutstandingChecks returns the books-only records flagged as checks that
// have not cleared the bank, in input order.
func OutstandingChecks(res *Result) []model.CategorizedTransaction {
	var checks []model.CategorizedTransaction
	for _, t := range res.BooksOnly {
		if t.OutstandingCheck {
			checks = append(checks, t)
		}
	}
	return checks
}
