package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/loanstore-go/internal/config"
	"github.com/cloud-ru/loanstore-go/internal/loans"
	"github.com/cloud-ru/loanstore-go/internal/logger"
	"github.com/cloud-ru/loanstore-go/internal/metrics"
	"github.com/cloud-ru/loanstore-go/internal/tracing"
)

// Repository постоянное хранилище реестра
type Repository interface {
	SaveLoan(ctx context.Context, l *loans.Loan) error
	UpdateLoan(ctx context.Context, l *loans.Loan) error
	RecordAlertRun(ctx context.Context, evaluatedFor time.Time, alerts []string) (string, error)
}

// Ledger владеет хранилищем кредитов и сериализует доступ к нему:
// изменения под записывающей блокировкой, запросы под читающей.
type Ledger struct {
	mu     sync.RWMutex
	store  *loans.Store
	repo   Repository
	cfg    *config.Config
	log    *logger.Logger
	tracer trace.Tracer
}

// NewLedger создает реестр. repo может быть nil, тогда реестр живет только в памяти.
func NewLedger(cfg *config.Config, store *loans.Store, repo Repository, log *logger.Logger, tracer trace.Tracer) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	if tracer == nil {
		tracer = tracing.Tracer
	}
	return &Ledger{
		store:  store,
		repo:   repo,
		cfg:    cfg,
		log:    log,
		tracer: tracer,
	}
}

// Load заполняет хранилище ранее сохраненными кредитами, не записывая их повторно.
// Даты повторно не проверяются. При ошибке хранилище остается прежним.
func (l *Ledger) Load(ls []*loans.Loan) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fresh := loans.NewStore(l.store.Clock())
	seen := make(map[string]struct{}, l.store.Len()+len(ls))
	for _, loan := range append(l.store.Loans(), ls...) {
		if loan == nil {
			return fmt.Errorf("загрузка реестра: %w: пустой кредит", loans.ErrInvalidArgument)
		}
		if _, dup := seen[loan.LoanID()]; dup {
			return fmt.Errorf("загрузка кредита %s: %w: повторный идентификатор", loan.LoanID(), loans.ErrInvalidArgument)
		}
		seen[loan.LoanID()] = struct{}{}
		fresh.Restore(loan)
	}
	l.store = fresh

	metrics.Loans.Set(float64(l.store.Len()))
	l.log.Info("ledger loaded", "loans", l.store.Len())
	return nil
}

// Len возвращает число кредитов
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Len()
}

// Loans возвращает кредиты в порядке добавления
func (l *Ledger) Loans() []*loans.Loan {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Loans()
}

func (l *Ledger) add(ctx context.Context, loan *loans.Loan) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := loan.Validate(); err != nil {
		return err
	}
	if _, exists := l.store.Get(loan.LoanID()); exists {
		return fmt.Errorf("%w: кредит %s уже существует", loans.ErrInvalidArgument, loan.LoanID())
	}
	if l.repo != nil {
		if err := l.repo.SaveLoan(ctx, loan); err != nil {
			return err
		}
	}
	if err := l.store.AddLoan(loan); err != nil {
		return err
	}
	metrics.Loans.Set(float64(l.store.Len()))
	return nil
}

func (l *Ledger) update(ctx context.Context, loanID string, remaining *float64, dueDate *time.Time) (*loans.Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loan, ok := l.store.Get(loanID)
	if !ok {
		return nil, fmt.Errorf("кредит %s: %w", loanID, errUnknownLoan)
	}
	prevRemaining, prevDue := loan.RemainingAmount(), loan.DueDate()
	if remaining != nil {
		loan.SetRemainingAmount(*remaining)
	}
	if dueDate != nil {
		loan.SetDueDate(*dueDate)
	}
	if err := loan.Validate(); err != nil {
		// срок погашения разрешено сдвинуть раньше даты платежа; проценты станут отрицательными
		l.log.Warn("loan violates payment/due date order after update", "loan_id", loanID, "error", err)
	}
	if l.repo != nil {
		if err := l.repo.UpdateLoan(ctx, loan); err != nil {
			loan.SetRemainingAmount(prevRemaining)
			loan.SetDueDate(prevDue)
			return nil, err
		}
	}
	return loan, nil
}

func (l *Ledger) read(fn func(s *loans.Store)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.store)
}
