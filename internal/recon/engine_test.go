package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/recon/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func bankDebit(t time.Time, desc, amount string) model.Transaction {
	return model.Transaction{Date: t, Description: desc, Debit: dec(amount), Source: model.SourceBank}
}

func bankCredit(t time.Time, desc, amount string) model.Transaction {
	return model.Transaction{Date: t, Description: desc, Credit: dec(amount), Source: model.SourceBank}
}

func booksDebit(t time.Time, desc, amount string) model.Transaction {
	return model.Transaction{Date: t, Description: desc, Debit: dec(amount), Source: model.SourceBooks}
}

func booksCredit(t time.Time, desc, amount string) model.Transaction {
	return model.Transaction{Date: t, Description: desc, Credit: dec(amount), Source: model.SourceBooks}
}

func TestReconcile_IdenticalTransactionsMatchExact(t *testing.T) {
	bank := []model.Transaction{bankCredit(date(2025, 10, 1), "Client payment", "1000.00")}
	books := []model.Transaction{booksCredit(date(2025, 10, 1), "Client payment", "1000.00")}

	res, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, model.MatchExact, res.Pairs[0].Kind)
	assert.Equal(t, 0, res.Pairs[0].DateOffsetDays)
	assert.True(t, res.Pairs[0].AmountDelta.IsZero())
	assert.Empty(t, res.BankOnly)
	assert.Empty(t, res.BooksOnly)
}

func TestReconcile_DateOffsetWithinWindowMatchesFuzzy(t *testing.T) {
	bank := []model.Transaction{bankDebit(date(2025, 10, 1), "Office supplies", "50.00")}
	books := []model.Transaction{booksDebit(date(2025, 10, 3), "Office supplies", "50.00")}

	res, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, model.MatchFuzzy, res.Pairs[0].Kind)
	assert.Equal(t, 2, res.Pairs[0].DateOffsetDays)
	assert.Empty(t, res.BankOnly)
	assert.Empty(t, res.BooksOnly)
}

func TestReconcile_DateOffsetBeyondWindowDoesNotMatch(t *testing.T) {
	bank := []model.Transaction{bankDebit(date(2025, 10, 1), "Office supplies", "50.00")}
	books := []model.Transaction{booksDebit(date(2025, 10, 10), "Office supplies", "50.00")}

	res, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, res.Pairs)
	require.Len(t, res.BankOnly, 1)
	require.Len(t, res.BooksOnly, 1)
	assert.Equal(t, "Office supplies", res.BankOnly[0].Description)
}

func TestReconcile_ExactPassRunsBeforeFuzzy(t *testing.T) {
	bank := []model.Transaction{bankDebit(date(2025, 10, 5), "Vendor ACH", "75.00")}
	// A fuzzy-eligible candidate appears before the exact one; the exact
	// pass must still claim the later, identical row.
	books := []model.Transaction{
		booksDebit(date(2025, 10, 4), "Vendor ACH", "75.00"),
		booksDebit(date(2025, 10, 5), "Vendor ACH", "75.00"),
	}

	res, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, model.MatchExact, res.Pairs[0].Kind)
	assert.Equal(t, date(2025, 10, 5), res.Pairs[0].Books.Date)
	require.Len(t, res.BooksOnly, 1)
	assert.Equal(t, date(2025, 10, 4), res.BooksOnly[0].Date)
}

func TestReconcile_ThresholdBoundary(t *testing.T) {
	cfg := Config{MatchThreshold: dec("0.01"), DateWindow: 3}

	// Exactly at both bounds: matched.
	bank := []model.Transaction{bankDebit(date(2025, 10, 1), "Sub", "50.00")}
	books := []model.Transaction{booksDebit(date(2025, 10, 4), "Sub", "50.01")}
	res, err := Reconcile(bank, books, cfg)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, model.MatchFuzzy, res.Pairs[0].Kind)
	assert.Equal(t, 3, res.Pairs[0].DateOffsetDays)
	assert.True(t, res.Pairs[0].AmountDelta.Equal(dec("0.01")))

	// One cent beyond the threshold: no match.
	books = []model.Transaction{booksDebit(date(2025, 10, 1), "Sub", "50.02")}
	res, err = Reconcile(bank, books, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Pairs)

	// One day beyond the window: no match.
	books = []model.Transaction{booksDebit(date(2025, 10, 5), "Sub", "50.00")}
	res, err = Reconcile(bank, books, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Pairs)
}

func TestReconcile_TieBreakPrefersEarlierBooksRow(t *testing.T) {
	bank := []model.Transaction{bankDebit(date(2025, 10, 1), "Duplicate charge", "25.00")}
	books := []model.Transaction{
		booksDebit(date(2025, 10, 1), "First copy", "25.00"),
		booksDebit(date(2025, 10, 1), "Second copy", "25.00"),
	}

	for i := 0; i < 3; i++ {
		res, err := Reconcile(bank, books, DefaultConfig())
		require.NoError(t, err)
		require.Len(t, res.Pairs, 1)
		assert.Equal(t, "First copy", res.Pairs[0].Books.Description)
		require.Len(t, res.BooksOnly, 1)
		assert.Equal(t, "Second copy", res.BooksOnly[0].Description)
	}
}

func TestReconcile_PartitionCompleteness(t *testing.T) {
	bank := []model.Transaction{
		bankDebit(date(2025, 10, 1), "Monthly Service Fee", "15.00"),
		bankCredit(date(2025, 10, 2), "Deposit", "1200.00"),
		bankDebit(date(2025, 10, 6), "Check 1004", "320.00"),
	}
	books := []model.Transaction{
		booksCredit(date(2025, 10, 2), "Deposit", "1200.00"),
		booksDebit(date(2025, 10, 7), "Check 1004", "320.00"),
		booksDebit(date(2025, 10, 20), "Check #1005", "450.00"),
	}

	res, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	total := len(res.Pairs)*2 + len(res.BankOnly) + len(res.BooksOnly) + len(res.RecordErrors)
	assert.Equal(t, len(bank)+len(books), total)
	assert.Len(t, res.Pairs, 2)
	assert.Len(t, res.BankOnly, 1)
	assert.Len(t, res.BooksOnly, 1)
}

func TestReconcile_EmptyBankInput(t *testing.T) {
	books := []model.Transaction{
		booksDebit(date(2025, 10, 20), "Check #1005", "450.00"),
		booksCredit(date(2025, 10, 21), "Deposit", "90.00"),
	}

	res, err := Reconcile(nil, books, DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, res.Pairs)
	assert.Empty(t, res.BankOnly)
	assert.Len(t, res.BooksOnly, 2)
}

func TestReconcile_NegativeThresholdRejected(t *testing.T) {
	_, err := Reconcile(nil, nil, Config{MatchThreshold: dec("-0.01"), DateWindow: 3})
	require.Error(t, err)
	var cfgErr ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "match_threshold", cfgErr.Field)
}

func TestReconcile_NegativeWindowRejected(t *testing.T) {
	_, err := Reconcile(nil, nil, Config{MatchThreshold: dec("0.01"), DateWindow: -1})
	require.Error(t, err)
	var cfgErr ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "date_window", cfgErr.Field)
}

func TestReconcile_MalformedRecordsExcludedButRunContinues(t *testing.T) {
	bad := model.Transaction{
		Date: date(2025, 10, 1), Description: "Both sides set",
		Debit: dec("10.00"), Credit: dec("10.00"), Source: model.SourceBank,
	}
	bank := []model.Transaction{
		bad,
		bankDebit(date(2025, 10, 2), "Valid row", "20.00"),
	}
	books := []model.Transaction{booksDebit(date(2025, 10, 2), "Valid row", "20.00")}

	res, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.RecordErrors, 1)
	assert.Equal(t, model.SourceBank, res.RecordErrors[0].Source)
	assert.Equal(t, 0, res.RecordErrors[0].Row)
	assert.Contains(t, res.RecordErrors[0].Reason, "both debit")

	// The valid pair still matched.
	require.Len(t, res.Pairs, 1)
	assert.Empty(t, res.BankOnly)
}

func TestReconcile_ZeroZeroRecordRejected(t *testing.T) {
	bal := dec("100.00")
	empty := model.Transaction{
		Date: date(2025, 10, 1), Description: "Balance row",
		Balance: &bal, Source: model.SourceBooks,
	}

	res, err := Reconcile(nil, []model.Transaction{empty}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.RecordErrors, 1)
	assert.Contains(t, res.RecordErrors[0].Reason, "neither debit nor credit")
	assert.Empty(t, res.BooksOnly)
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	bank := []model.Transaction{bankDebit(date(2025, 10, 1), "Original", "10.00")}
	books := []model.Transaction{booksDebit(date(2025, 10, 1), "Original", "10.00")}
	bankCopy := bank[0]
	booksCopy := books[0]

	_, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, bankCopy, bank[0])
	assert.Equal(t, booksCopy, books[0])
}

func TestReconcile_UnmatchedRecordsAreCategorized(t *testing.T) {
	bank := []model.Transaction{bankDebit(date(2025, 10, 1), "Monthly Service Fee", "15.00")}
	books := []model.Transaction{
		{
			Date: date(2025, 10, 20), Description: "Check #1005",
			Debit: dec("450.00"), Reference: "1005", Source: model.SourceBooks,
		},
	}

	res, err := Reconcile(bank, books, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.BankOnly, 1)
	assert.Equal(t, CategoryBankFees, res.BankOnly[0].Category)
	assert.False(t, res.BankOnly[0].OutstandingCheck)

	require.Len(t, res.BooksOnly, 1)
	assert.Equal(t, CategoryCheck, res.BooksOnly[0].Category)
	assert.True(t, res.BooksOnly[0].OutstandingCheck)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 2, daysBetween(date(2025, 10, 1), date(2025, 10, 3)))
	assert.Equal(t, -2, daysBetween(date(2025, 10, 3), date(2025, 10, 1)))
	assert.Equal(t, 0, daysBetween(date(2025, 10, 1), date(2025, 10, 1)))
	// Across a month boundary.
	assert.Equal(t, 3, daysBetween(date(2025, 9, 29), date(2025, 10, 2)))
}
