package doctor

import (
	"fmt"
	"io"
)

// Write renders a file analysis as plain text.
func (rep *FileReport) Write(w io.Writer) {
	fmt.Fprintf(w, "%s: %d rows, %d columns\n", rep.Path, rep.Rows, len(rep.Columns))

	for _, c := range rep.Columns {
		fmt.Fprintf(w, "  %-24s non-empty %d/%d", c.Name, c.NonEmpty, rep.Rows)
		switch {
		case c.IsDate:
			fmt.Fprintf(w, "  dates (%s) %s to %s", c.DateLayout,
				c.MinDate.Format("2006-01-02"), c.MaxDate.Format("2006-01-02"))
		case c.IsAmount:
			fmt.Fprintf(w, "  amounts, sum %s", c.Sum.StringFixed(2))
			if c.HasSymbols {
				fmt.Fprint(w, " (contains $/,/() formatting)")
			}
		case c.IsReference:
			fmt.Fprint(w, "  reference candidate")
		}
		fmt.Fprintln(w)
		if len(c.Samples) > 0 {
			fmt.Fprintf(w, "    samples: %v\n", c.Samples)
		}
	}

	fmt.Fprintln(w, "  suggested mapping:")
	writeMapping(w, "date_column", rep.Suggestion.DateColumn)
	writeMapping(w, "description_column", rep.Suggestion.DescriptionColumn)
	if rep.Suggestion.AmountColumn != "" {
		writeMapping(w, "amount_column", rep.Suggestion.AmountColumn)
	} else {
		writeMapping(w, "debit_column", rep.Suggestion.DebitColumn)
		writeMapping(w, "credit_column", rep.Suggestion.CreditColumn)
	}
	writeMapping(w, "reference_column", rep.Suggestion.ReferenceColumn)
	writeMapping(w, "balance_column", rep.Suggestion.BalanceColumn)
	if len(rep.Suggestion.DateFormats) > 0 {
		fmt.Fprintf(w, "    date_formats: %v\n", rep.Suggestion.DateFormats)
	}
}

func writeMapping(w io.Writer, field, value string) {
	if value == "" {
		fmt.Fprintf(w, "    %-20s (not found)\n", field)
		return
	}
	fmt.Fprintf(w, "    %-20s %s\n", field, value)
}
