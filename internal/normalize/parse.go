package normalize

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/recon/internal/model"
)

// Parser reads one institution's CSV export into canonical transactions.
type Parser struct {
	profile Profile
	source  model.Source
}

// NewParser creates a Parser for a validated profile.
func NewParser(p Profile, source model.Source) (*Parser, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Parser{profile: p, source: source}, nil
}

// columns maps the profile's column references to record indexes for one
// file. With a header the mapping comes from the header row; without one,
// column references are zero-based indexes.
type columns struct {
	date, desc, amount, debit, credit, ref, balance int
}

const noColumn = -1

// Parse reads the export and returns transactions in file order. Dates are
// normalized to midnight UTC; amounts to non-negative debit/credit.
func (p *Parser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged exports are common; resolve per row

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", p.profile.Name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := records
	var cols columns
	if p.profile.HasHeader {
		cols, err = p.resolveHeader(records[0])
		if err != nil {
			return nil, err
		}
		rows = records[1:]
	} else {
		cols, err = p.resolveIndexes()
		if err != nil {
			return nil, err
		}
	}

	firstRow := 1
	if p.profile.HasHeader {
		firstRow = 2
	}

	var txns []model.Transaction
	for i, rec := range rows {
		txn, err := p.parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+firstRow, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (p *Parser) resolveHeader(header []string) (columns, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	lookup := func(name string, required bool) (int, error) {
		if name == "" {
			return noColumn, nil
		}
		idx, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			if required {
				return noColumn, fmt.Errorf("profile %s: column %q not found in header", p.profile.Name, name)
			}
			return noColumn, nil
		}
		return idx, nil
	}

	var cols columns
	var err error
	if cols.date, err = lookup(p.profile.DateColumn, true); err != nil {
		return cols, err
	}
	if cols.desc, err = lookup(p.profile.DescriptionColumn, true); err != nil {
		return cols, err
	}
	if cols.amount, err = lookup(p.profile.AmountColumn, p.profile.AmountColumn != ""); err != nil {
		return cols, err
	}
	if cols.debit, err = lookup(p.profile.DebitColumn, p.profile.DebitColumn != ""); err != nil {
		return cols, err
	}
	if cols.credit, err = lookup(p.profile.CreditColumn, p.profile.CreditColumn != ""); err != nil {
		return cols, err
	}
	if cols.ref, err = lookup(p.profile.ReferenceColumn, false); err != nil {
		return cols, err
	}
	if cols.balance, err = lookup(p.profile.BalanceColumn, false); err != nil {
		return cols, err
	}
	return cols, nil
}

func (p *Parser) resolveIndexes() (columns, error) {
	parse := func(ref string) (int, error) {
		if ref == "" {
			return noColumn, nil
		}
		idx, err := strconv.Atoi(ref)
		if err != nil || idx < 0 {
			return noColumn, fmt.Errorf("profile %s: column index %q invalid for headerless export", p.profile.Name, ref)
		}
		return idx, nil
	}

	var cols columns
	var err error
	if cols.date, err = parse(p.profile.DateColumn); err != nil {
		return cols, err
	}
	if cols.desc, err = parse(p.profile.DescriptionColumn); err != nil {
		return cols, err
	}
	if cols.amount, err = parse(p.profile.AmountColumn); err != nil {
		return cols, err
	}
	if cols.debit, err = parse(p.profile.DebitColumn); err != nil {
		return cols, err
	}
	if cols.credit, err = parse(p.profile.CreditColumn); err != nil {
		return cols, err
	}
	if cols.ref, err = parse(p.profile.ReferenceColumn); err != nil {
		return cols, err
	}
	if cols.balance, err = parse(p.profile.BalanceColumn); err != nil {
		return cols, err
	}
	return cols, nil
}

func (p *Parser) parseRow(rec []string, cols columns) (model.Transaction, error) {
	field := func(idx int) string {
		if idx == noColumn || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	date, err := p.parseDate(field(cols.date))
	if err != nil {
		return model.Transaction{}, err
	}

	txn := model.Transaction{
		Date:        date,
		Description: field(cols.desc),
		Reference:   field(cols.ref),
		Source:      p.source,
	}

	if cols.amount != noColumn {
		amount, err := CleanAmount(field(cols.amount))
		if err != nil {
			return model.Transaction{}, err
		}
		// Bank convention: negative = money out.
		if amount.IsNegative() {
			txn.Debit = amount.Neg()
		} else {
			txn.Credit = amount
		}
	} else {
		if txn.Debit, err = CleanAmount(field(cols.debit)); err != nil {
			return model.Transaction{}, err
		}
		if txn.Credit, err = CleanAmount(field(cols.credit)); err != nil {
			return model.Transaction{}, err
		}
	}

	if raw := field(cols.balance); raw != "" {
		bal, err := CleanAmount(raw)
		if err != nil {
			return model.Transaction{}, err
		}
		txn.Balance = &bal
	}

	return txn, nil
}

func (p *Parser) parseDate(raw string) (time.Time, error) {
	for _, layout := range p.profile.DateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: no format matched", raw)
}
