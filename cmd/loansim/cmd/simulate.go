package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskmanagement123/loansim"
)

var simulateFlags struct {
	principal string
	months    int
	rate      string
	loanType  string
	strategy  string
	extra     string
	output    outputOptions
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a fixed-rate loan from flags",
	Example: `  loansim simulate --principal 300000 --months 360 --rate 0.045
  loansim simulate --principal 10000 --months 12 --rate 0.05 --type DECREASING --extra 1500 --format csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &simulateFlags
		principal, err := loansim.ParseMajor(f.principal)
		if err != nil {
			return describeError(err)
		}
		rate, err := loansim.ParseRate(f.rate)
		if err != nil {
			return describeError(err)
		}
		loanType, err := loansim.ParseLoanType(orDefault(f.loanType, appConfig.Engine.DefaultLoanType))
		if err != nil {
			return describeError(err)
		}
		strategy, err := loansim.ParseStrategy(orDefault(f.strategy, appConfig.Engine.DefaultStrategy))
		if err != nil {
			return describeError(err)
		}

		loan := loansim.LoanDefinition{Principal: principal, TermMonths: f.months, Type: loanType}
		market := loansim.FlatScenario(rate, f.months)
		cfg := loansim.SimulationConfig{Strategy: strategy}
		if f.extra != "" {
			extra, err := loansim.ParseMajor(f.extra)
			if err != nil {
				return describeError(err)
			}
			if extra.IsNegative() {
				return fmt.Errorf("--extra must not be negative")
			}
			if extra.IsPositive() {
				cfg.CustomPayments = loansim.FlatPayments(extra, f.months)
			}
		}
		return f.output.run(cmd, loan, market, cfg)
	},
}

func init() {
	f := &simulateFlags
	simulateCmd.Flags().StringVar(&f.principal, "principal", "", "principal amount, e.g. 250000.00")
	simulateCmd.Flags().IntVar(&f.months, "months", 0, "term in months")
	simulateCmd.Flags().StringVar(&f.rate, "rate", "", "annual rate as a fraction, e.g. 0.05")
	simulateCmd.Flags().StringVar(&f.loanType, "type", "", "EQUAL_INSTALLMENTS | DECREASING_INSTALLMENTS (default from config)")
	simulateCmd.Flags().StringVar(&f.strategy, "strategy", "", "REDUCE_TERM | REDUCE_INSTALLMENT (default from config)")
	simulateCmd.Flags().StringVar(&f.extra, "extra", "", "fixed custom payment for every month")
	f.output.bind(simulateCmd)
	_ = simulateCmd.MarkFlagRequired("principal")
	_ = simulateCmd.MarkFlagRequired("months")
	_ = simulateCmd.MarkFlagRequired("rate")
	rootCmd.AddCommand(simulateCmd)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
