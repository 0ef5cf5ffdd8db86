package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerOperations счетчик операций реестра
	LedgerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Количество операций реестра кредитов",
		},
		[]string{"operation", "status"},
	)

	// LedgerErrors счетчик ошибок операций
	LedgerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_errors_total",
			Help: "Количество ошибок операций реестра",
		},
		[]string{"operation", "error_type"},
	)

	// Loans число кредитов в реестре
	Loans = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_loans",
			Help: "Число кредитов в реестре",
		},
	)

	// OverdueLoans число просроченных кредитов при последней проверке
	OverdueLoans = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_overdue_loans",
			Help: "Число просроченных кредитов при последней проверке",
		},
	)
)
