package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run 重置所有 flag 后执行，避免上一次的值残留
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	reset := func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd)
	for _, c := range rootCmd.Commands() {
		reset(c)
	}
	var out, errOut bytes.Buffer
	err := executeArgs(&out, &errOut, args...)
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSimulate_Table(t *testing.T) {
	out, _, err := run(t, "simulate", "--principal", "1200", "--months", "12", "--rate", "0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Loan Schedule:\n"))
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "Installments:")
}

func TestSimulate_CSVToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "schedule.csv")
	out, _, err := run(t, "simulate", "--principal", "1200", "--months", "12", "--rate", "0.05",
		"--type", "DECREASING", "--strategy", "INSTALLMENT", "--format", "csv", "--out", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Month;Principal;Interest;Payment;Balance", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1;100.00;5.00;105.00;1100.00"))
	assert.Len(t, lines, 1+12+4)
}

func TestSimulate_PaymentsCSVAndDueDates(t *testing.T) {
	payments := writeTemp(t, "payments.csv", "Month,Amount\n2,5000\n")
	out, _, err := run(t, "simulate", "--principal", "10000", "--months", "12", "--rate", "0.05",
		"--payments-csv", payments, "--start", "2026-01-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Due")
	assert.Contains(t, out, "2026-02-28")
	assert.Contains(t, out, "5000.00")
	assert.NotContains(t, out, "2026-05-31")
}

func TestSimulate_FinanceError(t *testing.T) {
	_, logs, err := run(t, "simulate", "--principal", "100000", "--months", "12", "--rate", "0.05", "--extra", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[NEGATIVE_AMORTIZATION]")
	assert.Contains(t, err.Error(), "month 1")
	assert.Contains(t, logs, "simulation failed")
}

func TestSimulate_FlagErrors(t *testing.T) {
	_, _, err := run(t, "simulate", "--principal", "1000", "--rate", "0.05")
	assert.ErrorContains(t, err, "months")

	_, _, err = run(t, "simulate", "--principal", "1000", "--months", "12", "--rate", "0.05", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = run(t, "simulate", "--principal", "1000", "--months", "12", "--rate", "0.05", "--strategy", "sideways")
	assert.ErrorContains(t, err, "[INVALID_ARGUMENT]")

	_, _, err = run(t, "simulate", "--principal", "1000", "--months", "12", "--rate", "0.05", "--start", "31/01/2026")
	assert.ErrorContains(t, err, "invalid --start")
}

func TestSimulate_BadMonthsWithPaymentsCSV(t *testing.T) {
	payments := writeTemp(t, "payments.csv", "Month,Amount\n1,500\n")
	for _, months := range []string{"-5", "0", "2000000000"} {
		_, _, err := run(t, "simulate", "--principal", "1000", "--months", months, "--rate", "0.05", "--payments-csv", payments)
		assert.ErrorContains(t, err, "[INVALID_MONTHS]", "months %s", months)
	}
}

func TestCSVCommand(t *testing.T) {
	params := writeTemp(t, "params.csv",
		"PrincipalAmount,TermMonths,LoanType,AnnualRate,OverpaymentPlan,MonthlyExtra\n10000,12,0,0.05,0,0\n")
	out, _, err := run(t, "csv", params, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Month;Principal;Interest;Payment;Balance\n"))
	assert.Contains(t, out, "SUMMARY")

	bad := writeTemp(t, "bad.csv", "PrincipalAmount,TermMonths,LoanType,AnnualRate,OverpaymentPlan,MonthlyExtra\n-5,12,0,0.05,0,0\n")
	_, _, err = run(t, "csv", bad)
	assert.ErrorContains(t, err, "[INVALID_PRINCIPAL]")

	_, _, err = run(t, "csv")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	cfg := writeTemp(t, "loansim.toml", "[engine]\nmax_annual_rate = \"0.10\"\n[csv]\nexport_delimiter = \",\"\n")
	_, _, err := run(t, "--config", cfg, "simulate", "--principal", "1000", "--months", "12", "--rate", "0.2")
	assert.ErrorContains(t, err, "[INVALID_RATE]")

	out, _, err := run(t, "--config", cfg, "simulate", "--principal", "1200", "--months", "12", "--rate", "0", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Month,Principal,Interest,Payment,Balance\n"))

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "simulate", "--principal", "1", "--months", "1", "--rate", "0")
	assert.ErrorContains(t, err, "read config")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "loansim v"+Version)
}
