// Package csvinput 读取贷款参数表和不规则提前还款表。
package csvinput

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riskmanagement123/loansim"
)

// 参数表列顺序
var paramColumns = []string{"PrincipalAmount", "TermMonths", "LoanType", "AnnualRate", "OverpaymentPlan", "MonthlyExtra"}

var ErrNoDataRow = errors.New("csv has no data row")

// Params 参数表的一行
type Params struct {
	Principal    loansim.Money
	TermMonths   int
	LoanType     loansim.LoanType
	AnnualRate   loansim.Rate
	Strategy     loansim.Strategy
	MonthlyExtra loansim.Money
}

// Build 组装模拟输入。MonthlyExtra > 0 时每月都按该金额自定义还款。
func (p Params) Build() (loansim.LoanDefinition, loansim.MarketScenario, loansim.SimulationConfig) {
	loan := loansim.LoanDefinition{Principal: p.Principal, TermMonths: p.TermMonths, Type: p.LoanType}
	market := loansim.FlatScenario(p.AnnualRate, p.TermMonths)
	cfg := loansim.SimulationConfig{Strategy: p.Strategy}
	if p.MonthlyExtra.IsPositive() {
		cfg.CustomPayments = loansim.FlatPayments(p.MonthlyExtra, p.TermMonths)
	}
	return loan, market, cfg
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr
}

// ReadLoanParams 表头 + 一行数据，六列见 paramColumns
func ReadLoanParams(r io.Reader, delimiter rune) (Params, error) {
	cr := newReader(r, delimiter)
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Params{}, ErrNoDataRow
		}
		return Params{}, fmt.Errorf("read header: %w", err)
	}
	row, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Params{}, ErrNoDataRow
	}
	if err != nil {
		return Params{}, fmt.Errorf("read data row: %w", err)
	}
	if len(row) < len(paramColumns) {
		return Params{}, fmt.Errorf("expected %d columns, got %d", len(paramColumns), len(row))
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	var p Params
	if p.Principal, err = loansim.ParseMajor(row[0]); err != nil {
		return Params{}, columnErr(0, err)
	}
	if !p.Principal.IsPositive() {
		return Params{}, columnErr(0, loansim.ErrInvalidPrincipal)
	}
	if p.TermMonths, err = parseMonths(row[1]); err != nil {
		return Params{}, columnErr(1, err)
	}
	if p.LoanType, err = loansim.ParseLoanType(row[2]); err != nil {
		return Params{}, columnErr(2, err)
	}
	if p.AnnualRate, err = loansim.ParseRate(row[3]); err != nil {
		return Params{}, columnErr(3, err)
	}
	if p.Strategy, err = loansim.ParseStrategy(row[4]); err != nil {
		return Params{}, columnErr(4, err)
	}
	if p.MonthlyExtra, err = loansim.ParseMajor(orZero(row[5])); err != nil {
		return Params{}, columnErr(5, err)
	}
	if p.MonthlyExtra.IsNegative() {
		return Params{}, columnErr(5, fmt.Errorf("%w: negative monthly extra", loansim.ErrInvalidArgument))
	}
	return p, nil
}

// ApplyPaymentSchedule 读取 (Month, Amount) 两列，金额累加到 payments[Month-1]。
// 表头可有可无；越界月份、非正金额、无法解析的行跳过。返回实际生效的行数。
func ApplyPaymentSchedule(r io.Reader, delimiter rune, payments []loansim.Money) (int, error) {
	cr := newReader(r, delimiter)
	applied := 0
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return applied, fmt.Errorf("read payment schedule line %d: %w", line, err)
		}
		if len(row) < 2 {
			if line == 1 {
				return 0, fmt.Errorf("payment schedule needs two columns (Month, Amount)")
			}
			continue
		}
		month, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			// 表头或坏行
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[1]))
		if err != nil || !amount.IsPositive() {
			continue
		}
		idx := month - 1
		if idx < 0 || idx >= len(payments) {
			continue
		}
		payments[idx] = payments[idx].Add(loansim.FromMajor(amount))
		applied++
	}
	return applied, nil
}

func parseMonths(s string) (int, error) {
	// 表格导出常见 "120.0"
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q", loansim.ErrInvalidMonths, s)
	}
	n := d.IntPart()
	if n <= 0 || n > loansim.MaxTermMonths {
		return 0, fmt.Errorf("%w: %d", loansim.ErrInvalidMonths, n)
	}
	return int(n), nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func columnErr(i int, err error) error {
	return fmt.Errorf("column %s: %w", paramColumns[i], err)
}
