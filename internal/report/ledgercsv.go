package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/recon/internal/model"
)

// LedgerHeader is the CSV header for the ledger-import file.
const LedgerHeader = "Date,Description,Reference,Debit,Credit"

const ledgerDateFormat = "01/02/2006"

// WriteLedgerImport writes bank-only transactions in a format ready to
// import into the accounting ledger.
func WriteLedgerImport(w io.Writer, txns []model.CategorizedTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(LedgerHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(marshalLedgerRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalLedgerRow(t model.CategorizedTransaction) []string {
	row := make([]string, 5)
	row[0] = t.Date.Format(ledgerDateFormat)
	row[1] = t.Description
	row[2] = t.Reference
	if !t.Debit.IsZero() {
		row[3] = t.Debit.StringFixed(2)
	}
	if !t.Credit.IsZero() {
		row[4] = t.Credit.StringFixed(2)
	}
	return row
}
