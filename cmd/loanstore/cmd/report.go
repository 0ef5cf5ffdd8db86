package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/loanstore-go/pkg/id"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Sum remaining amount, interest or penalty per group",
	Long: `Group loans by lender, customer or interest rate and sum a metric.

Metrics:
  remaining  outstanding balance
  interest   interest between payment date and due date
  penalty    penalty accrued past the due date as of today`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List loans past their due date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, "due_date_alerts", nil)
	},
}

var alertsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a saved overdue check",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsShow,
}

// alertRunView сохраненная проверка просрочек в выводе
type alertRunView struct {
	RunID        string    `json:"run_id"`
	IssuedAt     time.Time `json:"issued_at"`
	EvaluatedFor string    `json:"evaluated_for"`
	Alerts       []string  `json:"alerts"`
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals for the whole ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, "summary", nil)
	},
}

var (
	reportMetric string
	reportBy     string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsShowCmd)
	rootCmd.AddCommand(summaryCmd)

	reportCmd.Flags().StringVarP(&reportMetric, "metric", "m", "remaining", "remaining|interest|penalty")
	reportCmd.Flags().StringVarP(&reportBy, "by", "b", "lender", "lender|customer|interest")
}

func runReport(cmd *cobra.Command, args []string) error {
	return call(cmd, "aggregate", map[string]interface{}{
		"metric":   reportMetric,
		"group_by": reportBy,
	})
}

func runAlertsShow(cmd *cobra.Command, args []string) error {
	runID := args[0]
	issuedAt, err := id.Time(runID)
	if err != nil {
		return fmt.Errorf("run id %q: %w", runID, err)
	}

	run, err := env.repo.GetAlertRun(cmd.Context(), runID)
	if err != nil {
		return err
	}

	alerts := run.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return printJSON(cmd, alertRunView{
		RunID:        run.RunID,
		IssuedAt:     issuedAt.UTC(),
		EvaluatedFor: run.EvaluatedFor.Format(utils.DateLayout),
		Alerts:       alerts,
	})
}
