package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/loanstore-go/internal/loans"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	_, path := newTestSQLite(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('loans','alert_runs')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["loans"])
	assert.True(t, found["alert_runs"])
}

func TestSQLiteSaveAndListLoans(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	in := []*loans.Loan{
		loans.NewLoan("L2", "C1", "LEN1", 20000, 5000, utils.Date(2023, 5, 1), 1, utils.Date(2023, 5, 8), 0.01),
		loans.NewLoan("L1", "C1", "LEN1", 10000, 10000, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01),
	}
	for _, l := range in {
		require.NoError(t, j.SaveLoan(ctx, l))
	}

	out, err := j.ListLoans(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// порядок вставки, а не сортировка по идентификатору
	assert.Equal(t, "L2", out[0].LoanID())
	assert.Equal(t, "L1", out[1].LoanID())

	got := out[0]
	assert.Equal(t, "C1", got.CustomerID())
	assert.Equal(t, "LEN1", got.LenderID())
	assert.Equal(t, 20000.0, got.Amount())
	assert.Equal(t, 5000.0, got.RemainingAmount())
	assert.True(t, got.PaymentDate().Equal(utils.Date(2023, 5, 1)))
	assert.True(t, got.DueDate().Equal(utils.Date(2023, 5, 8)))
	assert.Equal(t, 1, got.InterestPerDay())
	assert.Equal(t, 0.01, got.PenaltyPerDay())
}

func TestSQLiteDuplicateLoan(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	l := loans.NewLoan("L1", "C1", "LEN1", 1, 1, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01)
	require.NoError(t, j.SaveLoan(ctx, l))
	assert.Error(t, j.SaveLoan(ctx, l))
}

func TestSQLiteUpdateLoan(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	l := loans.NewLoan("L1", "C1", "LEN1", 10000, 10000, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01)
	require.NoError(t, j.SaveLoan(ctx, l))

	l.SetRemainingAmount(2500)
	l.SetDueDate(utils.Date(2023, 6, 1))
	require.NoError(t, j.UpdateLoan(ctx, l))

	out, err := j.ListLoans(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2500.0, out[0].RemainingAmount())
	assert.True(t, out[0].DueDate().Equal(utils.Date(2023, 6, 1)))

	missing := loans.NewLoan("NOPE", "C", "L", 1, 1, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01)
	assert.ErrorIs(t, j.UpdateLoan(ctx, missing), ErrNotFound)
}

func TestSQLiteAlertRuns(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	ctx := context.Background()

	alerts := []string{"Loan L1 is overdue", "Loan L3 is overdue"}
	runID, err := j.RecordAlertRun(ctx, utils.Date(2023, 9, 5), alerts)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	run, err := j.GetAlertRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, runID, run.RunID)
	assert.True(t, run.EvaluatedFor.Equal(utils.Date(2023, 9, 5)))
	assert.Equal(t, alerts, run.Alerts)
	assert.False(t, run.CreatedAt.IsZero())

	emptyID, err := j.RecordAlertRun(ctx, utils.Date(2023, 9, 6), nil)
	require.NoError(t, err)
	empty, err := j.GetAlertRun(ctx, emptyID)
	require.NoError(t, err)
	assert.Empty(t, empty.Alerts)

	_, err = j.GetAlertRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
