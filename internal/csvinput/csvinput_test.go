package csvinput

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskmanagement123/loansim"
)

const header = "PrincipalAmount,TermMonths,LoanType,AnnualRate,OverpaymentPlan,MonthlyExtra\n"

func TestReadLoanParams(t *testing.T) {
	p, err := ReadLoanParams(strings.NewReader(header+"250000.00, 360.0, 0, 0.045, 1, 0\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, "250000.00", p.Principal.String())
	assert.Equal(t, 360, p.TermMonths)
	assert.Equal(t, loansim.LoanEqualInstallments, p.LoanType)
	assert.Equal(t, "0.045", p.AnnualRate.String())
	assert.Equal(t, loansim.StrategyReduceInstallment, p.Strategy)
	assert.True(t, p.MonthlyExtra.IsZero())

	loan, market, cfg := p.Build()
	assert.Equal(t, 360, loan.TermMonths)
	assert.Len(t, market.AnnualRates, 360)
	assert.Nil(t, cfg.CustomPayments)
}

func TestReadLoanParams_SemicolonAndExtra(t *testing.T) {
	in := "PrincipalAmount;TermMonths;LoanType;AnnualRate;OverpaymentPlan;MonthlyExtra\n" +
		"10000;12;DECREASING_INSTALLMENTS;0.05;REDUCE_TERM;\n"
	p, err := ReadLoanParams(strings.NewReader(in), ';')
	require.NoError(t, err)
	assert.Equal(t, loansim.LoanDecreasingInstallments, p.LoanType)
	assert.True(t, p.MonthlyExtra.IsZero())

	in = header + "10000,12,1,0.05,0,1500\n"
	p, err = ReadLoanParams(strings.NewReader(in), ',')
	require.NoError(t, err)
	_, _, cfg := p.Build()
	require.Len(t, cfg.CustomPayments, 12)
	assert.Equal(t, "1500.00", cfg.CustomPayments[11].String())
}

func TestReadLoanParams_Errors(t *testing.T) {
	cases := []struct {
		name string
		row  string
		want error
		col  string
	}{
		{"bad principal", "abc,12,0,0.05,0,0", loansim.ErrInvalidArgument, "PrincipalAmount"},
		{"zero principal", "0,12,0,0.05,0,0", loansim.ErrInvalidPrincipal, "PrincipalAmount"},
		{"fractional months", "1000,12.5,0,0.05,0,0", loansim.ErrInvalidMonths, "TermMonths"},
		{"too many months", "1000,1201,0,0.05,0,0", loansim.ErrInvalidMonths, "TermMonths"},
		{"bad type", "1000,12,2,0.05,0,0", loansim.ErrInvalidArgument, "LoanType"},
		{"negative rate", "1000,12,0,-0.05,0,0", loansim.ErrInvalidRate, "AnnualRate"},
		{"bad strategy", "1000,12,0,0.05,X,0", loansim.ErrInvalidArgument, "OverpaymentPlan"},
		{"negative extra", "1000,12,0,0.05,0,-1", loansim.ErrInvalidArgument, "MonthlyExtra"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ReadLoanParams(strings.NewReader(header+c.row+"\n"), ',')
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
			assert.Contains(t, err.Error(), "column "+c.col)
		})
	}

	_, err := ReadLoanParams(strings.NewReader(header), ',')
	assert.ErrorIs(t, err, ErrNoDataRow)
	_, err = ReadLoanParams(strings.NewReader(""), ',')
	assert.ErrorIs(t, err, ErrNoDataRow)
	_, err = ReadLoanParams(strings.NewReader(header+"1000,12\n"), ',')
	assert.ErrorContains(t, err, "expected 6 columns")
}

func TestApplyPaymentSchedule(t *testing.T) {
	in := "Month,Amount\n" +
		"1,100\n" +
		"3,250.50\n" +
		"3,49.50\n" +
		"0,10\n" +
		"13,10\n" +
		"4,-5\n" +
		"five,1\n" +
		"2\n" +
		"6,0\n"
	payments := make([]loansim.Money, 12)
	n, err := ApplyPaymentSchedule(strings.NewReader(in), ',', payments)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "100.00", payments[0].String())
	assert.True(t, payments[1].IsZero())
	assert.Equal(t, "300.00", payments[2].String())
	assert.True(t, payments[3].IsZero())
	assert.True(t, payments[5].IsZero())
}

func TestApplyPaymentSchedule_NoHeader(t *testing.T) {
	payments := make([]loansim.Money, 3)
	n, err := ApplyPaymentSchedule(strings.NewReader("2;75\n"), ';', payments)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "75.00", payments[1].String())
}

func TestApplyPaymentSchedule_SingleColumn(t *testing.T) {
	_, err := ApplyPaymentSchedule(strings.NewReader("Month\n1\n"), ',', make([]loansim.Money, 3))
	assert.ErrorContains(t, err, "two columns")
}

func TestParamsBuild_Simulates(t *testing.T) {
	p, err := ReadLoanParams(strings.NewReader(header+"10000,12,0,0.05,0,0\n"), ',')
	require.NoError(t, err)
	loan, market, cfg := p.Build()
	s, err := loansim.RunLoanSimulation(loan, market, cfg)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Count)
	last, _ := s.Last()
	assert.True(t, last.Balance.IsZero())
}
