// Package report renders reconciliation results: a console summary, a
// multi-tab XLSX workbook, and a ledger-import CSV.
package report

import (
	"fmt"
	"io"

	"github.com/cleared-dev/recon/internal/recon"
)

// WriteConsole prints the run summary and action items in plain text.
func WriteConsole(w io.Writer, res *recon.Result, sum recon.Summary) {
	fmt.Fprintln(w, "Reconciliation summary")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "  Matched:    %d transactions\n", sum.Matched.Count)
	fmt.Fprintf(w, "  Bank only:  %d transactions (net %s)\n", sum.BankOnly.Count, sum.BankOnly.NetImpact.StringFixed(2))
	fmt.Fprintf(w, "  Books only: %d transactions (net %s)\n", sum.BooksOnly.Count, sum.BooksOnly.NetImpact.StringFixed(2))
	if len(res.RecordErrors) > 0 {
		fmt.Fprintf(w, "  Rejected:   %d malformed records\n", len(res.RecordErrors))
	}

	if sum.BankOnly.Count == 0 && sum.BooksOnly.Count == 0 && len(res.RecordErrors) == 0 {
		fmt.Fprintln(w, "\nFully reconciled.")
		return
	}

	fmt.Fprintln(w, "\nAction items")
	fmt.Fprintln(w, "------------")

	if sum.BankOnly.Count > 0 {
		fmt.Fprintf(w, "  Review %d transactions in bank not in books:\n", sum.BankOnly.Count)
		for _, cs := range sum.BankOnly.Categories {
			fmt.Fprintf(w, "    - %s: %d items totaling %s\n", cs.Category, cs.Count, cs.Amount.StringFixed(2))
		}
		fmt.Fprintln(w, "    Record bank fees and missing deposits in the ledger;")
		fmt.Fprintln(w, "    investigate any unrecognized transactions.")
	}

	if sum.BooksOnly.Count > 0 {
		fmt.Fprintf(w, "  Review %d transactions in books not in bank:\n", sum.BooksOnly.Count)
		for _, cs := range sum.BooksOnly.Categories {
			fmt.Fprintf(w, "    - %s: %d items totaling %s\n", cs.Category, cs.Count, cs.Amount.StringFixed(2))
		}
		writeOutstanding(w, res)
		fmt.Fprintln(w, "    Follow up on outstanding checks and deposits in transit;")
		fmt.Fprintln(w, "    correct any data entry errors.")
	}

	for _, re := range res.RecordErrors {
		fmt.Fprintf(w, "  Rejected: %s\n", re.Error())
	}
}

// maxListedChecks bounds the per-check lines on the console; the full list
// is always in the workbook.
const maxListedChecks = 5

func writeOutstanding(w io.Writer, res *recon.Result) {
	checks := recon.OutstandingChecks(res)
	if len(checks) == 0 {
		return
	}
	fmt.Fprintf(w, "    Outstanding checks: %d\n", len(checks))
	for i, c := range checks {
		if i == maxListedChecks {
			fmt.Fprintf(w, "      ... and %d more\n", len(checks)-maxListedChecks)
			break
		}
		fmt.Fprintf(w, "      Check #%s: %s (%s)\n", c.Reference, c.Debit.StringFixed(2), c.Date.Format("2006-01-02"))
	}
}
