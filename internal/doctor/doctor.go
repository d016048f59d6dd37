// Package doctor inspects raw CSV exports and suggests institution
// profile mappings, for use before the first reconciliation of a new
// bank's format.
package doctor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/recon/internal/normalize"
)

// Column heuristics: a header matching one of these word lists is a
// candidate for the corresponding transaction field.
var (
	dateWords    = []string{"date", "posting", "transaction"}
	descWords    = []string{"description", "desc", "memo"}
	debitWords   = []string{"debit", "withdrawal"}
	creditWords  = []string{"credit", "deposit"}
	amountWords  = []string{"amount"}
	refWords     = []string{"check", "ref", "num", "slip"}
	balanceWords = []string{"balance"}
)

// dateLayouts are tried when probing whether a column holds dates.
var dateLayouts = []string{"01/02/2006", "2006-01-02", "1/2/2006", "01/02/06", "02 Jan 2006"}

// ColumnReport describes one column of an analyzed file.
type ColumnReport struct {
	Name     string
	Index    int
	NonEmpty int
	Samples  []string

	// Date probing.
	IsDate     bool
	DateLayout string
	MinDate    time.Time
	MaxDate    time.Time

	// Amount probing.
	IsAmount   bool
	HasSymbols bool // $, thousands commas, or accounting parentheses
	Sum        decimal.Decimal

	IsReference bool
}

// FileReport is the analysis of one CSV export.
type FileReport struct {
	Path       string
	Rows       int
	Columns    []ColumnReport
	Suggestion normalize.Profile
}

const maxSamples = 3

// Analyze reads a CSV export and probes each column.
func Analyze(r io.Reader, path string) (*FileReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := records[0]
	rows := records[1:]

	rep := &FileReport{Path: path, Rows: len(rows)}
	for i, name := range header {
		rep.Columns = append(rep.Columns, probeColumn(strings.TrimSpace(name), i, rows))
	}
	rep.Suggestion = suggestProfile(rep.Columns)
	return rep, nil
}

func probeColumn(name string, idx int, rows [][]string) ColumnReport {
	col := ColumnReport{Name: name, Index: idx, Sum: decimal.Zero}

	var values []string
	for _, rec := range rows {
		if idx >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[idx])
		if v == "" {
			continue
		}
		col.NonEmpty++
		values = append(values, v)
		if len(col.Samples) < maxSamples {
			col.Samples = append(col.Samples, v)
		}
	}

	lower := strings.ToLower(name)
	if matchesAny(lower, dateWords) {
		probeDates(&col, values)
	}
	if matchesAny(lower, amountWords) || matchesAny(lower, debitWords) ||
		matchesAny(lower, creditWords) || matchesAny(lower, balanceWords) {
		probeAmounts(&col, values)
	}
	col.IsReference = matchesAny(lower, refWords)

	return col
}

func probeDates(col *ColumnReport, values []string) {
	for _, layout := range dateLayouts {
		var min, max time.Time
		ok := len(values) > 0
		for _, v := range values {
			t, err := time.Parse(layout, v)
			if err != nil {
				ok = false
				break
			}
			if min.IsZero() || t.Before(min) {
				min = t
			}
			if t.After(max) {
				max = t
			}
		}
		if ok {
			col.IsDate = true
			col.DateLayout = layout
			col.MinDate = min
			col.MaxDate = max
			return
		}
	}
}

func probeAmounts(col *ColumnReport, values []string) {
	sum := decimal.Zero
	for _, v := range values {
		d, err := normalize.CleanAmount(v)
		if err != nil {
			return
		}
		sum = sum.Add(d)
		if strings.ContainsAny(v, "$,(") {
			col.HasSymbols = true
		}
	}
	if len(values) > 0 {
		col.IsAmount = true
		col.Sum = sum
	}
}

// suggestProfile picks the best candidate column for each transaction
// field, first match wins per field.
func suggestProfile(cols []ColumnReport) normalize.Profile {
	p := normalize.Profile{Name: "suggested", HasHeader: true}
	for _, c := range cols {
		lower := strings.ToLower(c.Name)
		switch {
		case p.DateColumn == "" && c.IsDate:
			p.DateColumn = c.Name
			p.DateFormats = []string{c.DateLayout}
		case p.DescriptionColumn == "" && matchesAny(lower, descWords):
			p.DescriptionColumn = c.Name
		case matchesAny(lower, debitWords) && p.DebitColumn == "":
			p.DebitColumn = c.Name
		case matchesAny(lower, creditWords) && p.CreditColumn == "":
			p.CreditColumn = c.Name
		case matchesAny(lower, balanceWords) && p.BalanceColumn == "":
			p.BalanceColumn = c.Name
		case matchesAny(lower, amountWords) && p.AmountColumn == "":
			p.AmountColumn = c.Name
		case matchesAny(lower, refWords) && p.ReferenceColumn == "":
			p.ReferenceColumn = c.Name
		}
	}
	// Split debit/credit columns beat a single signed amount column.
	if p.DebitColumn != "" && p.CreditColumn != "" {
		p.AmountColumn = ""
	}
	return p
}

// DateOverlap reports whether the date ranges of two analyzed files
// intersect; disjoint ranges usually mean exports from different periods.
func DateOverlap(a, b *FileReport) (from, to time.Time, ok bool) {
	aMin, aMax, aOK := dateRange(a)
	bMin, bMax, bOK := dateRange(b)
	if !aOK || !bOK {
		return time.Time{}, time.Time{}, false
	}
	from = aMin
	if bMin.After(from) {
		from = bMin
	}
	to = aMax
	if bMax.Before(to) {
		to = bMax
	}
	return from, to, !from.After(to)
}

func dateRange(rep *FileReport) (min, max time.Time, ok bool) {
	for _, c := range rep.Columns {
		if c.IsDate {
			return c.MinDate, c.MaxDate, true
		}
	}
	return time.Time{}, time.Time{}, false
}

func matchesAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
