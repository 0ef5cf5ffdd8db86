package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/loanstore-go/internal/config"
	"github.com/cloud-ru/loanstore-go/internal/journal"
	"github.com/cloud-ru/loanstore-go/internal/loans"
	"github.com/cloud-ru/loanstore-go/internal/logger"
	"github.com/cloud-ru/loanstore-go/internal/tools"
	"github.com/cloud-ru/loanstore-go/internal/tracing"
)

var (
	dbPath string
	today  string

	env *runtime
)

// runtime зависимости, общие для всех команд
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	repo     *journal.SQLite
	ledger   *tools.Ledger
	shutdown func(context.Context) error
}

var rootCmd = &cobra.Command{
	Use:   "loanstore",
	Short: "Loan ledger: interest, penalty and overdue reports",
	Long: `loanstore keeps a ledger of loans in SQLite and reports derived metrics.

Reports:
  - remaining amount, interest and penalty grouped by lender, customer or interest rate
  - overdue alerts for loans past their due date
  - totals for the whole ledger

Examples:
  loanstore import loans.yaml
  loanstore report --metric penalty --by lender
  loanstore alerts --today 2023-09-05`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute запускает корневую команду и освобождает ресурсы, даже если команда
// завершилась ошибкой
func Execute() (err error) {
	defer func() {
		if cerr := teardown(context.Background()); err == nil {
			err = cerr
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite ledger DB (default $LOANSTORE_DB)")
	rootCmd.PersistentFlags().StringVar(&today, "today", "", "evaluate penalties and alerts as of YYYY-MM-DD (default $LEDGER_TODAY or the system clock)")
}

func setup(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if today != "" {
		cfg.Today = today
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	env = &runtime{cfg: cfg, log: log}

	env.shutdown, err = tracing.InitTracing(cmd.Context(), cfg.OTELServiceName, cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	c, err := cfg.Clock()
	if err != nil {
		return err
	}

	env.repo, err = journal.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	stored, err := env.repo.ListLoans(cmd.Context())
	if err != nil {
		return fmt.Errorf("load loans: %w", err)
	}

	ledger := tools.NewLedger(cfg, loans.NewStore(c), env.repo, log, tracing.Tracer)
	if err := ledger.Load(stored); err != nil {
		return err
	}
	env.ledger = ledger
	return nil
}

// teardown закрывает то, что успел открыть setup
func teardown(ctx context.Context) error {
	if env == nil {
		return nil
	}
	rt := env
	env = nil
	defer rt.log.Sync()

	if rt.shutdown != nil {
		if err := rt.shutdown(ctx); err != nil {
			rt.log.Warn("tracing shutdown failed", "error", err)
		}
	}
	if rt.repo == nil {
		return nil
	}
	return rt.repo.Close()
}

func call(cmd *cobra.Command, name string, params map[string]interface{}) error {
	res, err := tools.Call(cmd.Context(), env.ledger, name, params)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
