package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskmanagement123/loansim/internal/csvinput"
)

var csvOutput outputOptions

var csvCmd = &cobra.Command{
	Use:   "csv <params.csv>",
	Short: "Simulate from a loan parameter file",
	Long: `参数表：表头 + 一行数据，列依次为
  PrincipalAmount, TermMonths, LoanType, AnnualRate, OverpaymentPlan, MonthlyExtra
LoanType / OverpaymentPlan 可以写 0/1 或枚举名。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open params csv: %w", err)
		}
		defer f.Close()

		params, err := csvinput.ReadLoanParams(f, appConfig.InputDelimiter())
		if err != nil {
			return describeError(err)
		}
		loan, market, cfg := params.Build()
		return csvOutput.run(cmd, loan, market, cfg)
	},
}

func init() {
	csvOutput.bind(csvCmd)
	rootCmd.AddCommand(csvCmd)
}
