package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskmanagement123/loansim"
	"github.com/riskmanagement123/loansim/internal/calendar"
	"github.com/riskmanagement123/loansim/internal/csvinput"
	"github.com/riskmanagement123/loansim/internal/report"
)

// outputOptions simulate 和 csv 共用的输出参数
type outputOptions struct {
	paymentsCSV string
	start       string
	out         string
	format      string
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.paymentsCSV, "payments-csv", "", "irregular payments file (Month, Amount)")
	cmd.Flags().StringVar(&o.start, "start", "", "loan start date YYYY-MM-DD; adds a due date column")
	cmd.Flags().StringVar(&o.out, "out", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&o.format, "format", "table", "output format: table | csv")
}

// applyPayments 把不规则还款表合并进自定义还款
func (o *outputOptions) applyPayments(loan loansim.LoanDefinition, cfg *loansim.SimulationConfig) error {
	if o.paymentsCSV == "" {
		return nil
	}
	f, err := os.Open(o.paymentsCSV)
	if err != nil {
		return fmt.Errorf("open payments csv: %w", err)
	}
	defer f.Close()

	if cfg.CustomPayments == nil {
		cfg.CustomPayments = make([]loansim.Money, loan.TermMonths)
	}
	n, err := csvinput.ApplyPaymentSchedule(f, appConfig.InputDelimiter(), cfg.CustomPayments)
	if err != nil {
		return err
	}
	logger.WithField("rows", n).Debug("payment schedule applied")
	return nil
}

// run 模拟并输出
func (o *outputOptions) run(cmd *cobra.Command, loan loansim.LoanDefinition, market loansim.MarketScenario, cfg loansim.SimulationConfig) error {
	format := strings.ToLower(o.format)
	if format != "table" && format != "csv" {
		return fmt.Errorf("unknown format %q", o.format)
	}
	// 先校验期数，再按期数分配自定义还款
	if err := loansim.ValidateTerm(loan.TermMonths); err != nil {
		return describeError(err)
	}
	if err := o.applyPayments(loan, &cfg); err != nil {
		return err
	}

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	schedule, err := engine.Simulate(cmd.Context(), loan, market, cfg)
	if err != nil {
		return describeError(err)
	}

	w := cmd.OutOrStdout()
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return report.WriteCSV(w, schedule, appConfig.ExportDelimiter())
	}
	dates, err := o.dueDates(cmd.Context(), schedule.Count)
	if err != nil {
		return err
	}
	return report.WriteTable(w, schedule, dates)
}

func (o *outputOptions) dueDates(ctx context.Context, n int) ([]time.Time, error) {
	if o.start == "" {
		return nil, nil
	}
	start, err := time.Parse("2006-01-02", o.start)
	if err != nil {
		return nil, fmt.Errorf("invalid --start: %w", err)
	}
	roll, err := calendar.ParseRollConvention(appConfig.Calendar.Roll)
	if err != nil {
		return nil, err
	}
	var holidays calendar.HolidayProvider = calendar.WeekendProvider{}
	if url := appConfig.Calendar.HolidaysURL; url != "" && roll != calendar.Unadjusted {
		h, err := calendar.FetchHolidays(ctx, nil, url)
		if err != nil {
			// 拉不到节假日表时退回只看周末
			logger.WithError(err).Warn("holiday feed unavailable, using weekends only")
		} else {
			holidays = h
		}
	}
	return calendar.DueDates(start, n, roll, holidays), nil
}
