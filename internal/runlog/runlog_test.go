package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() Entry {
	return Entry{
		RunID:       NewRunID(),
		Timestamp:   time.Date(2025, 10, 31, 9, 30, 0, 0, time.UTC),
		BankFile:    "input/bank.csv",
		BooksFile:   "input/books.csv",
		BankCount:   6,
		BooksCount:  5,
		Matched:     4,
		BankOnly:    2,
		BooksOnly:   1,
		BadRecords:  0,
		NetVariance: decimal.NewFromFloat(-15.42),
	}
}

func TestAppendRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	e := sampleEntry()

	require.NoError(t, Append(dir, e))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, e.RunID, got.RunID)
	assert.True(t, got.Timestamp.Equal(e.Timestamp))
	assert.Equal(t, e.BankFile, got.BankFile)
	assert.Equal(t, 6, got.BankCount)
	assert.Equal(t, 4, got.Matched)
	assert.True(t, got.NetVariance.Equal(decimal.NewFromFloat(-15.42)))
}

func TestAppend_MultipleRuns(t *testing.T) {
	dir := t.TempDir()

	first := sampleEntry()
	second := sampleEntry()
	require.NoError(t, Append(dir, first))
	require.NoError(t, Append(dir, second))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.RunID, entries[0].RunID)
	assert.Equal(t, second.RunID, entries[1].RunID)
	assert.NotEqual(t, entries[0].RunID, entries[1].RunID)
}

func TestAppend_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, sampleEntry()))
	require.NoError(t, Append(dir, sampleEntry()))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "run-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "run_id,timestamp"))
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_FieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "short"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 11 fields")
}
