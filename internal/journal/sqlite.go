package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cloud-ru/loanstore-go/internal/loans"
	"github.com/cloud-ru/loanstore-go/pkg/id"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// ErrNotFound кредит отсутствует в базе
var ErrNotFound = errors.New("not found")

// AlertRun запись об одной проверке просрочек
type AlertRun struct {
	RunID        string
	EvaluatedFor time.Time
	CreatedAt    time.Time
	Alerts       []string
}

// SQLite хранит кредиты реестра и историю проверок просрочек
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// SaveLoan вставляет новый кредит в конец реестра
func (j *SQLite) SaveLoan(ctx context.Context, l *loans.Loan) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO loans
		(loan_id, customer_id, lender_id, amount, remaining_amount, payment_date, interest_per_day, due_date, penalty_per_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.LoanID(), l.CustomerID(), l.LenderID(), l.Amount(), l.RemainingAmount(),
		l.PaymentDate().Format(utils.DateLayout), l.InterestPerDay(),
		l.DueDate().Format(utils.DateLayout), l.PenaltyPerDay(),
	)
	if err != nil {
		return fmt.Errorf("insert loan %s: %w", l.LoanID(), err)
	}
	return nil
}

// UpdateLoan сохраняет изменяемые поля: остаток и срок погашения
func (j *SQLite) UpdateLoan(ctx context.Context, l *loans.Loan) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE loans SET remaining_amount = ?, due_date = ? WHERE loan_id = ?`,
		l.RemainingAmount(), l.DueDate().Format(utils.DateLayout), l.LoanID(),
	)
	if err != nil {
		return fmt.Errorf("update loan %s: %w", l.LoanID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update loan %s: %w", l.LoanID(), ErrNotFound)
	}
	return nil
}

// ListLoans возвращает кредиты в порядке добавления
func (j *SQLite) ListLoans(ctx context.Context) ([]*loans.Loan, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT loan_id, customer_id, lender_id, amount, remaining_amount, payment_date, interest_per_day, due_date, penalty_per_day
		FROM loans ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*loans.Loan
	for rows.Next() {
		var (
			loanID, customerID, lenderID string
			amount, remaining, penalty   float64
			paymentDate, dueDate         string
			interest                     int
		)
		if err := rows.Scan(&loanID, &customerID, &lenderID, &amount, &remaining,
			&paymentDate, &interest, &dueDate, &penalty); err != nil {
			return nil, err
		}

		pd, err := utils.ParseDate(paymentDate)
		if err != nil {
			return nil, fmt.Errorf("loan %s: payment_date: %w", loanID, err)
		}
		dd, err := utils.ParseDate(dueDate)
		if err != nil {
			return nil, fmt.Errorf("loan %s: due_date: %w", loanID, err)
		}

		out = append(out, loans.NewLoan(loanID, customerID, lenderID, amount, remaining, pd, interest, dd, penalty))
	}
	return out, rows.Err()
}

// RecordAlertRun сохраняет результат проверки просрочек и возвращает ее идентификатор
func (j *SQLite) RecordAlertRun(ctx context.Context, evaluatedFor time.Time, alerts []string) (string, error) {
	runID := id.New()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO alert_runs (run_id, evaluated_for, created_at, alert_count, alerts)
		VALUES (?, ?, ?, ?, ?)`,
		runID, evaluatedFor.Format(utils.DateLayout), time.Now().UTC(), len(alerts), strings.Join(alerts, "\n"),
	)
	if err != nil {
		return "", fmt.Errorf("insert alert run: %w", err)
	}
	return runID, nil
}

// GetAlertRun загружает проверку по идентификатору
func (j *SQLite) GetAlertRun(ctx context.Context, runID string) (AlertRun, error) {
	var (
		run          AlertRun
		evaluatedFor string
		alerts       string
	)
	err := j.db.QueryRowContext(ctx, `
		SELECT run_id, evaluated_for, created_at, alerts FROM alert_runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &evaluatedFor, &run.CreatedAt, &alerts)
	if errors.Is(err, sql.ErrNoRows) {
		return AlertRun{}, fmt.Errorf("alert run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return AlertRun{}, err
	}

	run.EvaluatedFor, err = utils.ParseDate(evaluatedFor)
	if err != nil {
		return AlertRun{}, err
	}
	if alerts != "" {
		run.Alerts = strings.Split(alerts, "\n")
	}
	return run, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
