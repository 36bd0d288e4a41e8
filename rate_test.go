package loansim

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate_Monthly(t *testing.T) {
	r := MustParseRate("0.12")
	assert.True(t, r.Monthly().Equal(decimal.RequireFromString("0.01")), "got %s", r.Monthly())
	assert.True(t, MustParseRate("0").IsZero())
}

func TestNewRateFromFloat_RejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.01} {
		_, err := NewRateFromFloat(f)
		assert.True(t, errors.Is(err, ErrInvalidRate), "value %v", f)
	}
	r, err := NewRateFromFloat(0.05)
	require.NoError(t, err)
	assert.Equal(t, "0.05", r.String())
}

func TestParseRate(t *testing.T) {
	_, err := ParseRate("-0.01")
	assert.True(t, errors.Is(err, ErrInvalidRate))
	_, err = ParseRate("five")
	assert.True(t, errors.Is(err, ErrInvalidRate))
}

func TestRate_JSON(t *testing.T) {
	var rates []Rate
	require.NoError(t, json.Unmarshal([]byte(`[0.05, "0.045"]`), &rates))
	require.Len(t, rates, 2)
	assert.Equal(t, "0.05", rates[0].String())
	assert.Equal(t, "0.045", rates[1].String())

	var bad Rate
	assert.True(t, errors.Is(json.Unmarshal([]byte(`"x"`), &bad), ErrInvalidRate))
}
