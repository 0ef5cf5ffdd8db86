package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/loanstore-go/internal/loans"
	"github.com/cloud-ru/loanstore-go/internal/metrics"
	"github.com/cloud-ru/loanstore-go/internal/validators"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// ToolHandler обработчик операции реестра
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

var (
	errUnknownLoan = errors.New("unknown loan")
	errUnknownTool = errors.New("unknown tool")
)

// Metric агрегируемая величина
type Metric string

const (
	MetricRemaining Metric = "remaining"
	MetricInterest  Metric = "interest"
	MetricPenalty   Metric = "penalty"
)

// GroupBy ключ группировки
type GroupBy string

const (
	GroupByLender   GroupBy = "lender"
	GroupByCustomer GroupBy = "customer"
	GroupByInterest GroupBy = "interest"
)

// GroupTotal сумма по одной группе
type GroupTotal struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// AggregateResult результат агрегации
type AggregateResult struct {
	Metric       Metric       `json:"metric"`
	GroupBy      GroupBy      `json:"group_by"`
	EvaluatedFor string       `json:"evaluated_for"`
	Groups       []GroupTotal `json:"groups"`
	Total        float64      `json:"total"`
}

// AlertsResult результат проверки просрочек
type AlertsResult struct {
	RunID        string   `json:"run_id,omitempty"`
	EvaluatedFor string   `json:"evaluated_for"`
	Alerts       []string `json:"alerts"`
}

// LoanView представление кредита в ответах
type LoanView struct {
	LoanID          string  `json:"loan_id"`
	CustomerID      string  `json:"customer_id"`
	LenderID        string  `json:"lender_id"`
	Amount          float64 `json:"amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	PaymentDate     string  `json:"payment_date"`
	InterestPerDay  int     `json:"interest_per_day"`
	DueDate         string  `json:"due_date"`
	PenaltyPerDay   float64 `json:"penalty_per_day"`
}

func viewOf(l *loans.Loan) LoanView {
	return LoanView{
		LoanID:          l.LoanID(),
		CustomerID:      l.CustomerID(),
		LenderID:        l.LenderID(),
		Amount:          l.Amount(),
		RemainingAmount: l.RemainingAmount(),
		PaymentDate:     l.PaymentDate().Format(utils.DateLayout),
		InterestPerDay:  l.InterestPerDay(),
		DueDate:         l.DueDate().Format(utils.DateLayout),
		PenaltyPerDay:   l.PenaltyPerDay(),
	}
}

// Handlers возвращает все операции реестра по именам
func Handlers(l *Ledger) map[string]ToolHandler {
	return map[string]ToolHandler{
		"add_loan":        AddLoanHandler(l),
		"update_loan":     UpdateLoanHandler(l),
		"aggregate":       AggregateHandler(l),
		"due_date_alerts": DueDateAlertsHandler(l),
		"summary":         SummaryHandler(l),
	}
}

// Call вызывает операцию по имени
func Call(ctx context.Context, l *Ledger, name string, params map[string]interface{}) (interface{}, error) {
	h, ok := Handlers(l)[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
	return h(ctx, params)
}

func fail(span trace.Span, toolName, errorType string, err error) error {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error", errorType))
	metrics.LedgerOperations.WithLabelValues(toolName, "error").Inc()
	metrics.LedgerErrors.WithLabelValues(toolName, errorType).Inc()
	return err
}

func succeed(span trace.Span, toolName string) {
	span.SetAttributes(attribute.Bool("success", true))
	metrics.LedgerOperations.WithLabelValues(toolName, "success").Inc()
}

// AddLoanHandler обрабатывает добавление кредита
func AddLoanHandler(l *Ledger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "add_loan"

		ctx, span := l.tracer.Start(ctx, toolName)
		defer span.End()

		metrics.LedgerOperations.WithLabelValues(toolName, "started").Inc()

		loan, err := loanFromParams(params)
		if err != nil {
			return nil, fail(span, toolName, "invalid_parameter", err)
		}

		span.SetAttributes(
			attribute.String("loan_id", loan.LoanID()),
			attribute.String("lender_id", loan.LenderID()),
			attribute.Float64("remaining_amount", loan.RemainingAmount()),
		)

		if err := validateTerms(l, loan); err != nil {
			return nil, fail(span, toolName, "validation_error", fmt.Errorf("неверные параметры: %w", err))
		}

		if err := l.add(ctx, loan); err != nil {
			l.log.Warn("loan rejected", "loan_id", loan.LoanID(), "error", err)
			errType := "storage_error"
			if errors.Is(err, loans.ErrInvalidArgument) {
				errType = "invalid_argument"
			}
			return nil, fail(span, toolName, errType, err)
		}

		l.log.Info("loan added", "loan_id", loan.LoanID(), "lender_id", loan.LenderID(), "customer_id", loan.CustomerID())
		succeed(span, toolName)

		return viewOf(loan), nil
	}
}

// UpdateLoanHandler меняет остаток и/или срок погашения кредита
func UpdateLoanHandler(l *Ledger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "update_loan"

		ctx, span := l.tracer.Start(ctx, toolName)
		defer span.End()

		metrics.LedgerOperations.WithLabelValues(toolName, "started").Inc()

		loanID, err := stringParam(params, "loan_id")
		if err != nil {
			return nil, fail(span, toolName, "invalid_parameter", err)
		}
		span.SetAttributes(attribute.String("loan_id", loanID))

		var remaining *float64
		if _, ok := params["remaining_amount"]; ok {
			v, err := floatParam(params, "remaining_amount")
			if err != nil {
				return nil, fail(span, toolName, "invalid_parameter", err)
			}
			if err := validators.CheckRemainingAmount(l.cfg, v); err != nil {
				return nil, fail(span, toolName, "validation_error", fmt.Errorf("неверные параметры: %w", err))
			}
			remaining = &v
		}

		var dueDate *time.Time
		if _, ok := params["due_date"]; ok {
			d, err := dateParam(params, "due_date")
			if err != nil {
				return nil, fail(span, toolName, "invalid_parameter", err)
			}
			dueDate = &d
		}

		if remaining == nil && dueDate == nil {
			return nil, fail(span, toolName, "invalid_parameter", fmt.Errorf("nothing to update: remaining_amount or due_date required"))
		}

		loan, err := l.update(ctx, loanID, remaining, dueDate)
		if err != nil {
			errType := "storage_error"
			if errors.Is(err, errUnknownLoan) {
				errType = "unknown_loan"
			}
			return nil, fail(span, toolName, errType, err)
		}

		l.log.Info("loan updated", "loan_id", loanID)
		succeed(span, toolName)

		return viewOf(loan), nil
	}
}

// AggregateHandler группирует кредиты и суммирует выбранную величину.
// Параметры: metric (remaining|interest|penalty), group_by (lender|customer|interest).
func AggregateHandler(l *Ledger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "aggregate"

		_, span := l.tracer.Start(ctx, toolName)
		defer span.End()

		metrics.LedgerOperations.WithLabelValues(toolName, "started").Inc()

		metricName, err := stringParam(params, "metric")
		if err != nil {
			return nil, fail(span, toolName, "invalid_parameter", err)
		}
		groupName, err := stringParam(params, "group_by")
		if err != nil {
			return nil, fail(span, toolName, "invalid_parameter", err)
		}

		metric, group := Metric(metricName), GroupBy(groupName)
		span.SetAttributes(
			attribute.String("metric", metricName),
			attribute.String("group_by", groupName),
		)

		var result *AggregateResult
		l.read(func(s *loans.Store) {
			result, err = aggregate(s, metric, group)
		})
		if err != nil {
			return nil, fail(span, toolName, "invalid_parameter", err)
		}

		span.SetAttributes(attribute.Int("groups", len(result.Groups)))
		succeed(span, toolName)

		return result, nil
	}
}

// DueDateAlertsHandler проверяет просрочки и сохраняет результат проверки
func DueDateAlertsHandler(l *Ledger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "due_date_alerts"

		ctx, span := l.tracer.Start(ctx, toolName)
		defer span.End()

		metrics.LedgerOperations.WithLabelValues(toolName, "started").Inc()

		var (
			alerts []string
			today  time.Time
		)
		l.read(func(s *loans.Store) {
			today = s.Clock().Today()
			alerts = s.CheckDueDateAlerts()
		})

		result := &AlertsResult{
			EvaluatedFor: today.Format(utils.DateLayout),
			Alerts:       alerts,
		}

		if l.repo != nil {
			runID, err := l.repo.RecordAlertRun(ctx, today, alerts)
			if err != nil {
				return nil, fail(span, toolName, "storage_error", err)
			}
			result.RunID = runID
		}

		metrics.OverdueLoans.Set(float64(len(alerts)))
		span.SetAttributes(attribute.Int("alerts", len(alerts)))
		if len(alerts) > 0 {
			l.log.Warn("overdue loans found", "count", len(alerts), "evaluated_for", result.EvaluatedFor)
		}
		succeed(span, toolName)

		return result, nil
	}
}

// SummaryHandler возвращает итоги по всему реестру
func SummaryHandler(l *Ledger) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := "summary"

		_, span := l.tracer.Start(ctx, toolName)
		defer span.End()

		metrics.LedgerOperations.WithLabelValues(toolName, "started").Inc()

		var sum loans.Summary
		l.read(func(s *loans.Store) {
			sum = s.Summary()
		})

		sum.Remaining = utils.Round2(sum.Remaining)
		sum.Interest = utils.Round2(sum.Interest)
		sum.Penalty = utils.Round2(sum.Penalty)

		span.SetAttributes(
			attribute.Int("loans", sum.Loans),
			attribute.Int("overdue", sum.Overdue),
		)
		succeed(span, toolName)

		return sum, nil
	}
}

func aggregate(s *loans.Store, metric Metric, group GroupBy) (*AggregateResult, error) {
	result := &AggregateResult{
		Metric:       metric,
		GroupBy:      group,
		EvaluatedFor: s.Clock().Today().Format(utils.DateLayout),
	}

	switch group {
	case GroupByLender, GroupByCustomer:
		var sums map[string]float64
		switch {
		case metric == MetricRemaining && group == GroupByLender:
			sums = s.AggregateRemainingAmountByLender()
		case metric == MetricRemaining:
			sums = s.AggregateRemainingAmountByCustomer()
		case metric == MetricInterest && group == GroupByLender:
			sums = s.AggregateInterestByLender()
		case metric == MetricInterest:
			sums = s.AggregateInterestByCustomer()
		case metric == MetricPenalty && group == GroupByLender:
			sums = s.AggregatePenaltyByLender()
		case metric == MetricPenalty:
			sums = s.AggregatePenaltyByCustomer()
		default:
			return nil, fmt.Errorf("invalid parameter: metric %q", metric)
		}
		keys := make([]string, 0, len(sums))
		for k := range sums {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			result.add(k, sums[k])
		}

	case GroupByInterest:
		var sums map[int]float64
		switch metric {
		case MetricRemaining:
			sums = s.AggregateRemainingAmountByInterest()
		case MetricInterest:
			sums = s.AggregateInterestByInterest()
		case MetricPenalty:
			sums = s.AggregatePenaltyByInterest()
		default:
			return nil, fmt.Errorf("invalid parameter: metric %q", metric)
		}
		keys := make([]int, 0, len(sums))
		for k := range sums {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			result.add(strconv.Itoa(k), sums[k])
		}

	default:
		return nil, fmt.Errorf("invalid parameter: group_by %q", group)
	}

	result.Total = utils.Round2(result.Total)
	return result, nil
}

func (r *AggregateResult) add(key string, value float64) {
	r.Groups = append(r.Groups, GroupTotal{Key: key, Value: utils.Round2(value)})
	r.Total += value
}

func validateTerms(l *Ledger, loan *loans.Loan) error {
	if err := validators.ValidateID("customer_id", loan.CustomerID()); err != nil {
		return err
	}
	if err := validators.ValidateID("lender_id", loan.LenderID()); err != nil {
		return err
	}
	if err := validators.CheckAmount(l.cfg, loan.Amount()); err != nil {
		return err
	}
	if err := validators.CheckRemainingAmount(l.cfg, loan.RemainingAmount()); err != nil {
		return err
	}
	if err := validators.CheckInterestPerDay(l.cfg, loan.InterestPerDay()); err != nil {
		return err
	}
	return validators.CheckPenaltyPerDay(l.cfg, loan.PenaltyPerDay())
}

func loanFromParams(params map[string]interface{}) (*loans.Loan, error) {
	loanID, err := stringParam(params, "loan_id")
	if err != nil {
		return nil, err
	}
	customerID, err := stringParam(params, "customer_id")
	if err != nil {
		return nil, err
	}
	lenderID, err := stringParam(params, "lender_id")
	if err != nil {
		return nil, err
	}
	amount, err := floatParam(params, "amount")
	if err != nil {
		return nil, err
	}
	remaining, err := floatParam(params, "remaining_amount")
	if err != nil {
		return nil, err
	}
	paymentDate, err := dateParam(params, "payment_date")
	if err != nil {
		return nil, err
	}
	interest, err := floatParam(params, "interest_per_day")
	if err != nil {
		return nil, err
	}
	if interest != float64(int(interest)) {
		return nil, fmt.Errorf("invalid parameter: interest_per_day must be an integer")
	}
	dueDate, err := dateParam(params, "due_date")
	if err != nil {
		return nil, err
	}
	penalty, err := floatParam(params, "penalty_per_day")
	if err != nil {
		return nil, err
	}

	return loans.NewLoan(loanID, customerID, lenderID, amount, remaining,
		paymentDate, int(interest), dueDate, penalty), nil
}

func stringParam(params map[string]interface{}, name string) (string, error) {
	v, ok := params[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("invalid parameter: %s", name)
	}
	return v, nil
}

// floatParam принимает числа так, как их отдает encoding/json (float64), и целые
func floatParam(params map[string]interface{}, name string) (float64, error) {
	switch v := params[name].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("invalid parameter: %s", name)
	}
}

func dateParam(params map[string]interface{}, name string) (time.Time, error) {
	switch v := params[name].(type) {
	case time.Time:
		return utils.DateOf(v), nil
	case string:
		d, err := utils.ParseDate(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid parameter: %s: %w", name, err)
		}
		return d, nil
	default:
		return time.Time{}, fmt.Errorf("invalid parameter: %s", name)
	}
}
