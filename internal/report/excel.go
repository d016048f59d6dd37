package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/recon/internal/model"
	"github.com/cleared-dev/recon/internal/recon"
)

// Sheet names in the report workbook.
const (
	SheetSummary           = "Executive Summary"
	SheetBankDetail        = "Bank Not Books Detail"
	SheetBankSummary       = "Bank Not Books Summary"
	SheetBooksDetail       = "Books Not Bank Detail"
	SheetBooksSummary      = "Books Not Bank Summary"
	SheetOutstandingChecks = "Outstanding Checks"
	SheetMatched           = "Matched Transactions"
	SheetLedgerImport      = "Ledger Import"
)

const sheetDateFormat = "2006-01-02"

// WorkbookPath returns the timestamped report path inside dir.
func WorkbookPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("reconciliation_%s.xlsx", now.Format("20060102_150405")))
}

// WriteWorkbook renders the full multi-tab report to path.
func WriteWorkbook(path string, res *recon.Result, sum recon.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, res, sum); err != nil {
		return err
	}

	if err := writeDetailSheet(f, SheetBankDetail, res.BankOnly); err != nil {
		return err
	}
	if err := writeCategorySheet(f, SheetBankSummary, sum.BankOnly); err != nil {
		return err
	}
	if err := writeDetailSheet(f, SheetBooksDetail, res.BooksOnly); err != nil {
		return err
	}
	if err := writeCategorySheet(f, SheetBooksSummary, sum.BooksOnly); err != nil {
		return err
	}
	if err := writeChecksSheet(f, res); err != nil {
		return err
	}
	if err := writeMatchedSheet(f, res); err != nil {
		return err
	}
	if err := writeLedgerSheet(f, res.BankOnly); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, res *recon.Result, sum recon.Summary) error {
	rows := [][]interface{}{
		{"Partition", "Count", "Total Debits", "Total Credits", "Net Impact"},
		{"Matched", sum.Matched.Count, amt(sum.Matched.TotalDebits), amt(sum.Matched.TotalCredits), amt(sum.Matched.NetImpact)},
		{"Bank Not Books", sum.BankOnly.Count, amt(sum.BankOnly.TotalDebits), amt(sum.BankOnly.TotalCredits), amt(sum.BankOnly.NetImpact)},
		{"Books Not Bank", sum.BooksOnly.Count, amt(sum.BooksOnly.TotalDebits), amt(sum.BooksOnly.TotalCredits), amt(sum.BooksOnly.NetImpact)},
		{},
		{"Outstanding Checks", len(recon.OutstandingChecks(res))},
		{"Rejected Records", len(res.RecordErrors)},
	}
	for i, r := range rows {
		if err := setRow(f, SheetSummary, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

func writeDetailSheet(f *excelize.File, sheet string, txns []model.CategorizedTransaction) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []interface{}{"Date", "Description", "Reference", "Debit", "Credit", "Category"}); err != nil {
		return err
	}
	for i, t := range txns {
		row := []interface{}{
			t.Date.Format(sheetDateFormat), t.Description, t.Reference,
			amt(t.Debit), amt(t.Credit), t.Category,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCategorySheet(f *excelize.File, sheet string, part recon.PartitionSummary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []interface{}{"Category", "Count", "Amount"}); err != nil {
		return err
	}
	for i, cs := range part.Categories {
		if err := setRow(f, sheet, i+2, []interface{}{cs.Category, cs.Count, amt(cs.Amount)}); err != nil {
			return err
		}
	}
	return nil
}

func writeChecksSheet(f *excelize.File, res *recon.Result) error {
	if _, err := f.NewSheet(SheetOutstandingChecks); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SheetOutstandingChecks, err)
	}
	if err := setRow(f, SheetOutstandingChecks, 1, []interface{}{"Check Number", "Date", "Description", "Amount"}); err != nil {
		return err
	}
	for i, c := range recon.OutstandingChecks(res) {
		row := []interface{}{c.Reference, c.Date.Format(sheetDateFormat), c.Description, amt(c.Debit)}
		if err := setRow(f, SheetOutstandingChecks, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMatchedSheet(f *excelize.File, res *recon.Result) error {
	if _, err := f.NewSheet(SheetMatched); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SheetMatched, err)
	}
	header := []interface{}{
		"Bank Date", "Bank Description", "Books Date", "Books Description",
		"Debit", "Credit", "Match", "Date Offset", "Amount Delta",
	}
	if err := setRow(f, SheetMatched, 1, header); err != nil {
		return err
	}
	for i, p := range res.Pairs {
		row := []interface{}{
			p.Bank.Date.Format(sheetDateFormat), p.Bank.Description,
			p.Books.Date.Format(sheetDateFormat), p.Books.Description,
			amt(p.Bank.Debit), amt(p.Bank.Credit),
			string(p.Kind), p.DateOffsetDays, amt(p.AmountDelta),
		}
		if err := setRow(f, SheetMatched, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeLedgerSheet(f *excelize.File, txns []model.CategorizedTransaction) error {
	if _, err := f.NewSheet(SheetLedgerImport); err != nil {
		return fmt.Errorf("creating sheet %s: %w", SheetLedgerImport, err)
	}
	if err := setRow(f, SheetLedgerImport, 1, []interface{}{"Date", "Description", "Reference", "Debit", "Credit"}); err != nil {
		return err
	}
	for i, t := range txns {
		row := []interface{}{
			t.Date.Format(ledgerDateFormat), t.Description, t.Reference,
			amt(t.Debit), amt(t.Credit),
		}
		if err := setRow(f, SheetLedgerImport, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// amt converts a decimal to a float cell value; report cells are display
// only, the engine never reads them back.
func amt(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
