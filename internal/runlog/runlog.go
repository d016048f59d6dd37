// Package runlog keeps an append-only CSV history of reconciliation runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one row in the run log.
type Entry struct {
	RunID       string
	Timestamp   time.Time
	BankFile    string
	BooksFile   string
	BankCount   int
	BooksCount  int
	Matched     int
	BankOnly    int
	BooksOnly   int
	BadRecords  int
	NetVariance decimal.Decimal // bank-only net minus books-only net
}

// Header is the CSV header for run-log.csv.
const Header = "run_id,timestamp,bank_file,books_file,bank_count,books_count,matched,bank_only,books_only,bad_records,net_variance"

const (
	numFields      = 11
	logDir         = "logs"
	logFile        = "logs/run-log.csv"
	colRunID       = 0
	colTimestamp   = 1
	colBankFile    = 2
	colBooksFile   = 3
	colBankCount   = 4
	colBooksCount  = 5
	colMatched     = 6
	colBankOnly    = 7
	colBooksOnly   = 8
	colBadRecords  = 9
	colNetVariance = 10
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colBankFile] = e.BankFile
	row[colBooksFile] = e.BooksFile
	row[colBankCount] = strconv.Itoa(e.BankCount)
	row[colBooksCount] = strconv.Itoa(e.BooksCount)
	row[colMatched] = strconv.Itoa(e.Matched)
	row[colBankOnly] = strconv.Itoa(e.BankOnly)
	row[colBooksOnly] = strconv.Itoa(e.BooksOnly)
	row[colBadRecords] = strconv.Itoa(e.BadRecords)
	row[colNetVariance] = e.NetVariance.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 6)
	for i, col := range []int{colBankCount, colBooksCount, colMatched, colBankOnly, colBooksOnly, colBadRecords} {
		counts[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	variance, err := decimal.NewFromString(record[colNetVariance])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing net_variance %q: %w", record[colNetVariance], err)
	}

	return Entry{
		RunID:       record[colRunID],
		Timestamp:   ts,
		BankFile:    record[colBankFile],
		BooksFile:   record[colBooksFile],
		BankCount:   counts[0],
		BooksCount:  counts[1],
		Matched:     counts[2],
		BankOnly:    counts[3],
		BooksOnly:   counts[4],
		BadRecords:  counts[5],
		NetVariance: variance,
	}, nil
}

// Append writes an entry to <root>/logs/run-log.csv, creating the file and
// header if needed.
func Append(root string, e Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
