package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/loanstore-go/internal/loans"
	"github.com/cloud-ru/loanstore-go/internal/portfolio"
	"github.com/cloud-ru/loanstore-go/internal/tools"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Add every loan from a YAML portfolio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <file.yaml>",
	Short: "Write the ledger to a YAML portfolio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var addCmd = &cobra.Command{
	Use:   "add <loan-id>",
	Short: "Add one loan",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <loan-id>",
	Short: "Change the remaining amount or due date of a loan",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var addFlags struct {
	customerID     string
	lenderID       string
	amount         float64
	remaining      float64
	paymentDate    string
	interestPerDay int
	dueDate        string
	penaltyPerDay  float64
}

var updateFlags struct {
	remaining float64
	dueDate   string
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)

	f := addCmd.Flags()
	f.StringVar(&addFlags.customerID, "customer", "", "customer id")
	f.StringVar(&addFlags.lenderID, "lender", "", "lender id")
	f.Float64Var(&addFlags.amount, "amount", 0, "principal borrowed")
	f.Float64Var(&addFlags.remaining, "remaining", 0, "outstanding balance")
	f.StringVar(&addFlags.paymentDate, "payment-date", "", "payment date YYYY-MM-DD")
	f.IntVar(&addFlags.interestPerDay, "interest", 0, "interest per day, percent")
	f.StringVar(&addFlags.dueDate, "due-date", "", "due date YYYY-MM-DD")
	f.Float64Var(&addFlags.penaltyPerDay, "penalty", 0, "penalty per day, percent")
	for _, name := range []string{"customer", "lender", "payment-date", "due-date"} {
		_ = addCmd.MarkFlagRequired(name)
	}

	updateCmd.Flags().Float64Var(&updateFlags.remaining, "remaining", 0, "new outstanding balance")
	updateCmd.Flags().StringVar(&updateFlags.dueDate, "due-date", "", "new due date YYYY-MM-DD")
}

func loanParams(l *loans.Loan) map[string]interface{} {
	return map[string]interface{}{
		"loan_id":          l.LoanID(),
		"customer_id":      l.CustomerID(),
		"lender_id":        l.LenderID(),
		"amount":           l.Amount(),
		"remaining_amount": l.RemainingAmount(),
		"payment_date":     l.PaymentDate().Format(utils.DateLayout),
		"interest_per_day": l.InterestPerDay(),
		"due_date":         l.DueDate().Format(utils.DateLayout),
		"penalty_per_day":  l.PenaltyPerDay(),
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ls, err := portfolio.LoadFile(args[0])
	if err != nil {
		return err
	}

	added := 0
	for _, l := range ls {
		if _, err := tools.Call(cmd.Context(), env.ledger, "add_loan", loanParams(l)); err != nil {
			return fmt.Errorf("import stopped after %d loans: %w", added, err)
		}
		added++
	}

	return printJSON(cmd, map[string]int{"imported": added, "loans": env.ledger.Len()})
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := portfolio.Marshal(env.ledger.Loans())
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("write portfolio file: %w", err)
	}
	return printJSON(cmd, map[string]int{"exported": env.ledger.Len()})
}

func runAdd(cmd *cobra.Command, args []string) error {
	return call(cmd, "add_loan", map[string]interface{}{
		"loan_id":          args[0],
		"customer_id":      addFlags.customerID,
		"lender_id":        addFlags.lenderID,
		"amount":           addFlags.amount,
		"remaining_amount": addFlags.remaining,
		"payment_date":     addFlags.paymentDate,
		"interest_per_day": addFlags.interestPerDay,
		"due_date":         addFlags.dueDate,
		"penalty_per_day":  addFlags.penaltyPerDay,
	})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	params := map[string]interface{}{"loan_id": args[0]}
	if cmd.Flags().Changed("remaining") {
		params["remaining_amount"] = updateFlags.remaining
	}
	if cmd.Flags().Changed("due-date") {
		params["due_date"] = updateFlags.dueDate
	}
	return call(cmd, "update_loan", params)
}
