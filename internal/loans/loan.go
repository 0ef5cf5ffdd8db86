package loans

import (
	"fmt"
	"time"

	"github.com/cloud-ru/loanstore-go/internal/clock"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// Loan представляет один кредит.
// Идентификаторы, сумма, дата платежа и ставки не меняются после создания;
// остаток и срок погашения владелец может изменить напрямую.
type Loan struct {
	loanID          string
	customerID      string
	lenderID        string
	amount          float64
	remainingAmount float64
	paymentDate     time.Time
	interestPerDay  int
	dueDate         time.Time
	penaltyPerDay   float64
}

// NewLoan создает кредит. Даты приводятся к календарным.
func NewLoan(loanID, customerID, lenderID string, amount, remainingAmount float64,
	paymentDate time.Time, interestPerDay int, dueDate time.Time, penaltyPerDay float64) *Loan {
	return &Loan{
		loanID:          loanID,
		customerID:      customerID,
		lenderID:        lenderID,
		amount:          amount,
		remainingAmount: remainingAmount,
		paymentDate:     utils.DateOf(paymentDate),
		interestPerDay:  interestPerDay,
		dueDate:         utils.DateOf(dueDate),
		penaltyPerDay:   penaltyPerDay,
	}
}

func (l *Loan) LoanID() string           { return l.loanID }
func (l *Loan) CustomerID() string       { return l.customerID }
func (l *Loan) LenderID() string         { return l.lenderID }
func (l *Loan) Amount() float64          { return l.amount }
func (l *Loan) RemainingAmount() float64 { return l.remainingAmount }
func (l *Loan) PaymentDate() time.Time   { return l.paymentDate }
func (l *Loan) InterestPerDay() int      { return l.interestPerDay }
func (l *Loan) DueDate() time.Time       { return l.dueDate }
func (l *Loan) PenaltyPerDay() float64   { return l.penaltyPerDay }

// SetRemainingAmount меняет остаток долга
func (l *Loan) SetRemainingAmount(v float64) {
	l.remainingAmount = v
}

// SetDueDate меняет срок погашения. Условие paymentDate <= dueDate здесь не
// проверяется; для явной проверки есть Validate.
func (l *Loan) SetDueDate(d time.Time) {
	l.dueDate = utils.DateOf(d)
}

// Validate проверяет, что дата платежа не позже срока погашения
func (l *Loan) Validate() error {
	if l.paymentDate.After(l.dueDate) {
		return fmt.Errorf("%w: кредит %s: дата платежа %s позже срока погашения %s",
			ErrInvalidArgument, l.loanID,
			l.paymentDate.Format(utils.DateLayout), l.dueDate.Format(utils.DateLayout))
	}
	return nil
}

// IsOverdue сообщает, прошел ли срок погашения к дате today.
// Кредит со сроком ровно today просроченным не считается.
func (l *Loan) IsOverdue(today time.Time) bool {
	return utils.DateOf(today).After(l.dueDate)
}

// CalculateInterest рассчитывает проценты за период от даты платежа до срока погашения.
// При нарушенном после вставки условии paymentDate <= dueDate результат отрицательный.
func (l *Loan) CalculateInterest() float64 {
	days := utils.DaysBetween(l.paymentDate, l.dueDate)

	dailyInterestRate := float64(l.interestPerDay) / 100.0
	return l.remainingAmount * dailyInterestRate * float64(days)
}

// CalculatePenalty рассчитывает пеню на сегодняшнюю дату по часам c
func (l *Loan) CalculatePenalty(c clock.Clock) float64 {
	return l.PenaltyOn(c.Today())
}

// PenaltyOn рассчитывает пеню на дату today
func (l *Loan) PenaltyOn(today time.Time) float64 {
	today = utils.DateOf(today)
	if today.Before(l.dueDate) {
		return 0.0
	}

	overdueDays := utils.DaysBetween(l.dueDate, today)
	dailyPenaltyRate := l.penaltyPerDay / 100.0
	return l.remainingAmount * dailyPenaltyRate * float64(overdueDays)
}
