package portfolio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cloud-ru/loanstore-go/internal/loans"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// File YAML файл со списком кредитов
type File struct {
	Loans []Entry `yaml:"loans"`
}

// Entry описание кредита в файле. Даты в формате YYYY-MM-DD.
type Entry struct {
	LoanID          string  `yaml:"loan_id"`
	CustomerID      string  `yaml:"customer_id"`
	LenderID        string  `yaml:"lender_id"`
	Amount          float64 `yaml:"amount"`
	RemainingAmount float64 `yaml:"remaining_amount"`
	PaymentDate     string  `yaml:"payment_date"`
	InterestPerDay  int     `yaml:"interest_per_day"`
	DueDate         string  `yaml:"due_date"`
	PenaltyPerDay   float64 `yaml:"penalty_per_day"`
}

// Loan строит кредит из записи
func (e Entry) Loan() (*loans.Loan, error) {
	if e.LoanID == "" {
		return nil, fmt.Errorf("loan_id is required")
	}
	pd, err := utils.ParseDate(e.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("loan %s: payment_date: %w", e.LoanID, err)
	}
	dd, err := utils.ParseDate(e.DueDate)
	if err != nil {
		return nil, fmt.Errorf("loan %s: due_date: %w", e.LoanID, err)
	}
	return loans.NewLoan(e.LoanID, e.CustomerID, e.LenderID, e.Amount, e.RemainingAmount,
		pd, e.InterestPerDay, dd, e.PenaltyPerDay), nil
}

// Parse разбирает YAML со списком кредитов в порядке следования в файле
func Parse(data []byte) ([]*loans.Loan, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}

	out := make([]*loans.Loan, 0, len(f.Loans))
	for i, e := range f.Loans {
		l, err := e.Loan()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// LoadFile читает YAML файл с кредитами
func LoadFile(path string) ([]*loans.Loan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio file: %w", err)
	}
	return Parse(data)
}

// Marshal сериализует кредиты обратно в YAML
func Marshal(ls []*loans.Loan) ([]byte, error) {
	f := File{Loans: make([]Entry, 0, len(ls))}
	for _, l := range ls {
		f.Loans = append(f.Loans, Entry{
			LoanID:          l.LoanID(),
			CustomerID:      l.CustomerID(),
			LenderID:        l.LenderID(),
			Amount:          l.Amount(),
			RemainingAmount: l.RemainingAmount(),
			PaymentDate:     l.PaymentDate().Format(utils.DateLayout),
			InterestPerDay:  l.InterestPerDay(),
			DueDate:         l.DueDate().Format(utils.DateLayout),
			PenaltyPerDay:   l.PenaltyPerDay(),
		})
	}
	return yaml.Marshal(f)
}
