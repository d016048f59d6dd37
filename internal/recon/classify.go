package recon

import (
	"strings"

	"github.com/cleared-dev/recon/internal/model"
)

// Category labels assigned to unmatched transactions.
const (
	CategoryBankFees      = "Bank Fees"
	CategoryInterest      = "Interest/Dividends"
	CategoryTransfer      = "Transfer"
	CategoryCheck         = "Check"
	CategoryDeposit       = "Deposit"
	CategoryUncategorized = "Uncategorized"
)

// rule is one (predicate, label) entry in the categorization table.
type rule struct {
	category string
	match    func(model.Transaction) bool
}

// rules is evaluated top to bottom; the first match wins. The order is the
// contract: "Check Printing Fee" is a bank fee, not a check. Append new
// rules at the end to keep existing resolutions stable.
var rules = []rule{
	{CategoryBankFees, keywords("fee", "service charge", "charge", "maintenance")},
	{CategoryInterest, keywords("interest", "dividend")},
	{CategoryTransfer, keywords("transfer", "xfer", "zelle", "wire")},
	{CategoryCheck, isCheck},
	{CategoryDeposit, keywords("deposit", "payroll", "direct dep")},
}

// Categorize assigns a category label from the transaction description.
// Stateless: the same transaction always yields the same label.
func Categorize(t model.Transaction) string {
	for _, r := range rules {
		if r.match(t) {
			return r.category
		}
	}
	return CategoryUncategorized
}

// IsOutstandingCheck reports whether a books-only transaction is a check
// written and recorded in the ledger but not yet cleared by the bank.
func IsOutstandingCheck(t model.Transaction, category string) bool {
	return category == CategoryCheck && !t.Debit.IsZero() && t.Reference != ""
}

func keywords(words ...string) func(model.Transaction) bool {
	return func(t model.Transaction) bool {
		desc := strings.ToLower(t.Description)
		for _, w := range words {
			if strings.Contains(desc, w) {
				return true
			}
		}
		return false
	}
}

// isCheck matches check language in the description or a bare numeric
// reference (banks report cleared checks with just the check number).
func isCheck(t model.Transaction) bool {
	if strings.Contains(strings.ToLower(t.Description), "check") {
		return true
	}
	return t.Reference != "" && allDigits(t.Reference)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
