package loansim

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// Rate 年化利率（0.05 = 5%），保持十进制全精度
type Rate struct {
	annual decimal.Decimal
}

// NewRate 不做校验，校验在模拟入口统一完成
func NewRate(annual decimal.Decimal) Rate {
	return Rate{annual: annual}
}

// NewRateFromFloat 浮点入口：NaN/Inf/负数在这里直接拒绝
func NewRateFromFloat(annual float64) (Rate, error) {
	if math.IsNaN(annual) || math.IsInf(annual, 0) || annual < 0 {
		return Rate{}, fmt.Errorf("%w: %v", ErrInvalidRate, annual)
	}
	return Rate{annual: decimal.NewFromFloat(annual)}, nil
}

// ParseRate 解析 "0.05"
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	if d.IsNegative() {
		return Rate{}, fmt.Errorf("%w: %q is negative", ErrInvalidRate, s)
	}
	return Rate{annual: d}, nil
}

// MustParseRate 仅用于常量和测试
func MustParseRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) Annual() decimal.Decimal { return r.annual }

// Monthly 月利率 = 年利率 / 12
func (r Rate) Monthly() decimal.Decimal { return r.annual.Div(monthsPerYear) }

func (r Rate) IsZero() bool { return r.annual.IsZero() }

func (r Rate) String() string { return r.annual.String() }

func (r Rate) MarshalJSON() ([]byte, error) { return r.annual.MarshalJSON() }

func (r *Rate) UnmarshalJSON(data []byte) error {
	if err := r.annual.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRate, data)
	}
	return nil
}
