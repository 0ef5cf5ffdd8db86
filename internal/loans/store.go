package loans

import (
	"fmt"

	"github.com/cloud-ru/loanstore-go/internal/clock"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// Store хранит кредиты в порядке добавления и считает по ним агрегаты.
// Store не синхронизирован: при конкурентном доступе его нужно оборачивать
// внешней блокировкой (см. tools.Ledger).
type Store struct {
	loans []*Loan
	clock clock.Clock
}

// NewStore создает пустое хранилище. Если c == nil, используются системные часы.
func NewStore(c clock.Clock) *Store {
	if c == nil {
		c = clock.System{}
	}
	return &Store{clock: c}
}

// Clock возвращает часы хранилища
func (s *Store) Clock() clock.Clock {
	return s.clock
}

// AddLoan добавляет кредит в конец списка.
// Кредит с датой платежа позже срока погашения отклоняется с ErrInvalidArgument.
func (s *Store) AddLoan(loan *Loan) error {
	if loan == nil {
		return fmt.Errorf("%w: loan is nil", ErrInvalidArgument)
	}
	if err := loan.Validate(); err != nil {
		return err
	}
	s.loans = append(s.loans, loan)
	return nil
}

// Restore добавляет ранее сохраненный кредит без проверки дат.
// Срок погашения мог быть сдвинут раньше даты платежа уже после AddLoan.
func (s *Store) Restore(loan *Loan) {
	s.loans = append(s.loans, loan)
}

// Len возвращает количество кредитов
func (s *Store) Len() int {
	return len(s.loans)
}

// Loans возвращает кредиты в порядке добавления. Срез новый, кредиты общие.
func (s *Store) Loans() []*Loan {
	out := make([]*Loan, len(s.loans))
	copy(out, s.loans)
	return out
}

// Get ищет кредит по идентификатору
func (s *Store) Get(loanID string) (*Loan, bool) {
	for _, l := range s.loans {
		if l.loanID == loanID {
			return l, true
		}
	}
	return nil, false
}

func (s *Store) AggregateRemainingAmountByLender() map[string]float64 {
	return aggregate(s.loans, byLender, remaining)
}

func (s *Store) AggregateRemainingAmountByCustomer() map[string]float64 {
	return aggregate(s.loans, byCustomer, remaining)
}

func (s *Store) AggregateRemainingAmountByInterest() map[int]float64 {
	return aggregate(s.loans, byInterest, remaining)
}

func (s *Store) AggregateInterestByLender() map[string]float64 {
	return aggregate(s.loans, byLender, interest)
}

func (s *Store) AggregateInterestByCustomer() map[string]float64 {
	return aggregate(s.loans, byCustomer, interest)
}

func (s *Store) AggregateInterestByInterest() map[int]float64 {
	return aggregate(s.loans, byInterest, interest)
}

// Пеня считается на дату вызова; результат меняется при переходе через срок погашения.

func (s *Store) AggregatePenaltyByLender() map[string]float64 {
	return aggregate(s.loans, byLender, s.penalty())
}

func (s *Store) AggregatePenaltyByCustomer() map[string]float64 {
	return aggregate(s.loans, byCustomer, s.penalty())
}

func (s *Store) AggregatePenaltyByInterest() map[int]float64 {
	return aggregate(s.loans, byInterest, s.penalty())
}

// CheckDueDateAlerts возвращает по одному сообщению на каждый просроченный кредит
// в порядке добавления. Кредиты со сроком сегодня не попадают в список.
func (s *Store) CheckDueDateAlerts() []string {
	today := s.clock.Today()
	alerts := make([]string, 0)
	for _, l := range s.loans {
		if l.IsOverdue(today) {
			alerts = append(alerts, fmt.Sprintf("Loan %s is overdue", l.loanID))
		}
	}
	return alerts
}

// Summary итоги по всему хранилищу
type Summary struct {
	Loans        int     `json:"loans"`
	Overdue      int     `json:"overdue"`
	Remaining    float64 `json:"remaining_amount"`
	Interest     float64 `json:"interest"`
	Penalty      float64 `json:"penalty"`
	EvaluatedFor string  `json:"evaluated_for"`
}

// Summary считает итоги без группировки. Сумма любой группировки по всем
// ключам совпадает с соответствующим полем.
func (s *Store) Summary() Summary {
	today := s.clock.Today()
	sum := Summary{Loans: len(s.loans), EvaluatedFor: today.Format(utils.DateLayout)}
	for _, l := range s.loans {
		sum.Remaining += l.remainingAmount
		sum.Interest += l.CalculateInterest()
		sum.Penalty += l.PenaltyOn(today)
		if l.IsOverdue(today) {
			sum.Overdue++
		}
	}
	return sum
}

func (s *Store) penalty() func(*Loan) float64 {
	today := s.clock.Today()
	return func(l *Loan) float64 { return l.PenaltyOn(today) }
}

func byLender(l *Loan) string   { return l.lenderID }
func byCustomer(l *Loan) string { return l.customerID }
func byInterest(l *Loan) int    { return l.interestPerDay }

func remaining(l *Loan) float64 { return l.remainingAmount }
func interest(l *Loan) float64  { return l.CalculateInterest() }

func aggregate[K comparable](loans []*Loan, key func(*Loan) K, value func(*Loan) float64) map[K]float64 {
	out := make(map[K]float64)
	for _, l := range loans {
		out[key(l)] += value(l)
	}
	return out
}
