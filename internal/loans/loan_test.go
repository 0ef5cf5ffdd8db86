package loans

import (
	"errors"
	"testing"

	"github.com/cloud-ru/loanstore-go/internal/clock"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestCalculateInterest(t *testing.T) {
	tests := []struct {
		name string
		loan *Loan
		want float64
	}{
		{
			name: "one day at one percent",
			loan: NewLoan("L1", "C1", "LEN1", 10000, 10000, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01),
			want: 100.0,
		},
		{
			name: "seven days on remaining amount",
			loan: NewLoan("L2", "C1", "LEN1", 20000, 5000, utils.Date(2023, 5, 1), 1, utils.Date(2023, 5, 8), 0.01),
			want: 350.0,
		},
		{
			name: "same day",
			loan: NewLoan("L3", "C2", "LEN2", 100, 100, utils.Date(2023, 5, 1), 5, utils.Date(2023, 5, 1), 0.01),
			want: 0.0,
		},
		{
			name: "span longer than time.Duration",
			loan: NewLoan("L5", "C3", "LEN3", 1, 1, utils.Date(1700, 1, 1), 100, utils.Date(2100, 1, 1), 0.01),
			want: 146097.0,
		},
		{
			name: "zero rate",
			loan: NewLoan("L4", "C2", "LEN2", 100, 100, utils.Date(2023, 5, 1), 0, utils.Date(2023, 6, 1), 0.01),
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.loan.CalculateInterest(), 1e-9)
		})
	}
}

func TestCalculateInterestIgnoresClock(t *testing.T) {
	loan := NewLoan("L1", "C1", "LEN1", 10000, 10000, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01)
	first := loan.CalculateInterest()
	_ = loan.CalculatePenalty(clock.NewFixed(utils.Date(2030, 1, 1)))
	assert.Equal(t, first, loan.CalculateInterest())
}

func TestCalculatePenalty(t *testing.T) {
	loan := NewLoan("L1", "C1", "LEN1", 10000, 10000, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01)

	tests := []struct {
		name  string
		today string
		want  float64
	}{
		{name: "before due date", today: "2023-05-06", want: 0.0},
		{name: "long before due date", today: "2022-01-01", want: 0.0},
		{name: "on due date", today: "2023-05-07", want: 0.0},
		{name: "one day overdue", today: "2023-05-08", want: 1.0},
		{name: "121 days overdue", today: "2023-09-05", want: 121.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today, err := utils.ParseDate(tt.today)
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, loan.CalculatePenalty(clock.NewFixed(today)), 1e-9)
		})
	}
}

func TestPenaltyGrowsLinearly(t *testing.T) {
	loan := NewLoan("L3", "C2", "LEN2", 50000, 30000, utils.Date(2023, 4, 4), 2, utils.Date(2023, 4, 5), 0.02)
	perDay := 30000 * 0.02 / 100.0

	for days := 0; days < 10; days++ {
		today := loan.DueDate().AddDate(0, 0, days)
		assert.InDelta(t, perDay*float64(days), loan.PenaltyOn(today), 1e-9)
	}
}

func TestMutationsAreNotRevalidated(t *testing.T) {
	loan := NewLoan("L1", "C1", "LEN1", 10000, 10000, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01)
	assert.NoError(t, loan.Validate())

	loan.SetRemainingAmount(2000)
	loan.SetDueDate(utils.Date(2023, 5, 4))

	assert.Equal(t, 2000.0, loan.RemainingAmount())
	assert.Equal(t, 10000.0, loan.Amount())
	// два дня в обратную сторону дают отрицательные проценты
	assert.InDelta(t, -40.0, loan.CalculateInterest(), 1e-9)

	err := loan.Validate()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestIsOverdue(t *testing.T) {
	loan := NewLoan("L1", "C1", "LEN1", 100, 100, utils.Date(2023, 5, 6), 1, utils.Date(2023, 5, 7), 0.01)

	assert.False(t, loan.IsOverdue(utils.Date(2023, 5, 6)))
	assert.False(t, loan.IsOverdue(utils.Date(2023, 5, 7)))
	assert.True(t, loan.IsOverdue(utils.Date(2023, 5, 8)))
}
