package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskmanagement123/loansim"
)

func sampleSchedule(t *testing.T) *loansim.LoanSchedule {
	t.Helper()
	loan := loansim.LoanDefinition{Principal: loansim.MustParseMajor("1200.00"), TermMonths: 3, Type: loansim.LoanEqualInstallments}
	s, err := loansim.RunLoanSimulation(loan, loansim.FlatScenario(loansim.MustParseRate("0.12"), 3), loansim.SimulationConfig{Strategy: loansim.StrategyReduceTerm})
	require.NoError(t, err)
	return s
}

func TestWriteCSV(t *testing.T) {
	s := sampleSchedule(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s, ';'))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1+3+4)
	assert.Equal(t, "Month;Principal;Interest;Payment;Balance", lines[0])
	first := s.Items[0]
	assert.Equal(t, "1;"+first.Capital.String()+";12.00;"+first.Payment.String()+";"+first.Balance.String(), lines[1])
	assert.True(t, strings.HasSuffix(lines[3], ";0.00"))
	assert.Equal(t, ";;;;", lines[4])
	assert.Equal(t, "SUMMARY;;;;", lines[5])
	assert.Equal(t, "Total Interest;"+s.TotalInterest.String()+";;;", lines[6])
	assert.Equal(t, "Total Paid;"+s.TotalPaid.String()+";;;", lines[7])
}

func TestWriteTable(t *testing.T) {
	s := sampleSchedule(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, s, nil))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Loan Schedule:\n"))
	assert.Contains(t, out, "Principal")
	assert.NotContains(t, out, "Due")
	assert.Contains(t, out, s.Items[0].Payment.String())
	assert.Contains(t, out, "Total Principal Paid:")
	assert.Contains(t, out, "1200.00")
	assert.Contains(t, out, "Total Interest Cost:")
	assert.Contains(t, out, s.TotalInterest.String())
}

func TestWriteTable_WithDueDates(t *testing.T) {
	s := sampleSchedule(t)
	dates := []time.Time{
		time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, s, dates))
	assert.Contains(t, buf.String(), "Due")
	assert.Contains(t, buf.String(), "2026-03-02")
}

func TestWriters_NilSchedule(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteTable(&buf, nil, nil), ErrEmptySchedule)
	assert.ErrorIs(t, WriteCSV(&buf, nil, ','), ErrEmptySchedule)
}
