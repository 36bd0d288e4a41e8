package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskmanagement123/loansim"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "warn", "json")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	log.Info("hidden")
	log.Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])

	assert.Equal(t, logrus.InfoLevel, NewWithOutput(&buf, "loud", "text").GetLevel())
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, RequestID(nil))
	assert.Equal(t, "abc", RequestID(WithRequestID(context.Background(), "abc")))
}

func TestPlugin(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "debug", "json")
	e := loansim.NewEngine(loansim.Config{}, NewPlugin(log))

	loan := loansim.LoanDefinition{Principal: loansim.MustParseMajor("1200.00"), TermMonths: 12, Type: loansim.LoanEqualInstallments}
	market := loansim.FlatScenario(loansim.MustParseRate("0"), 12)
	ctx := WithRequestID(context.Background(), "req-1")

	_, err := e.Simulate(ctx, loan, market, loansim.SimulationConfig{Strategy: loansim.StrategyReduceTerm})
	require.NoError(t, err)
	_, err = e.Simulate(ctx, loan, loansim.MarketScenario{}, loansim.SimulationConfig{Strategy: loansim.StrategyReduceTerm})
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	decode := func(s string) map[string]any {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(s), &m))
		return m
	}
	started, finished, failed := decode(lines[0]), decode(lines[1]), decode(lines[3])

	assert.Equal(t, "simulation started", started["msg"])
	assert.Equal(t, "debug", started["level"])
	assert.Equal(t, "req-1", started["request_id"])

	assert.Equal(t, "simulation finished", finished["msg"])
	assert.Equal(t, float64(12), finished["installments"])
	assert.Equal(t, "1200.00", finished["total_paid"])
	assert.Equal(t, "1200.00", finished["principal"])

	assert.Equal(t, "simulation failed", failed["msg"])
	assert.Equal(t, "warning", failed["level"])
	assert.Equal(t, "NULL_RATES", failed["code"])
}
