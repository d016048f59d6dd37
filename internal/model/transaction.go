package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies which export a transaction came from.
type Source string

const (
	SourceBank  Source = "BANK"
	SourceBooks Source = "BOOKS"
)

// Transaction is a normalized statement row from either source. Amounts are
// split into non-negative debit (money out) and credit (money in) columns;
// exactly one of the two is nonzero on a valid row.
type Transaction struct {
	Date        time.Time // calendar date, no time component
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Reference   string           // check number or transaction id, "" = none
	Balance     *decimal.Decimal // running balance if the export carries one
	Source      Source
}

// Amount returns the single nonzero side of the row.
func (t Transaction) Amount() decimal.Decimal {
	if !t.Debit.IsZero() {
		return t.Debit
	}
	return t.Credit
}

// Validate checks the debit/credit invariant: non-negative amounts,
// exactly one side nonzero.
func (t Transaction) Validate() error {
	if t.Debit.IsNegative() {
		return fmt.Errorf("negative debit %s", t.Debit)
	}
	if t.Credit.IsNegative() {
		return fmt.Errorf("negative credit %s", t.Credit)
	}
	hasDebit := !t.Debit.IsZero()
	hasCredit := !t.Credit.IsZero()
	if hasDebit && hasCredit {
		return fmt.Errorf("both debit (%s) and credit (%s) set", t.Debit, t.Credit)
	}
	if !hasDebit && !hasCredit {
		return fmt.Errorf("neither debit nor credit set")
	}
	return nil
}
