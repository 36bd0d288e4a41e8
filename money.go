package loansim

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// CurrencyScale 每个主单位包含的最小单位数（分）
const CurrencyScale = 100

var (
	scale    = decimal.NewFromInt(CurrencyScale)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Money 以最小货币单位计数的定点金额，永远不会出现半分
type Money struct {
	minor int64
}

// Zero 零金额
var Zero = Money{}

// FromMinor 直接用分构造
func FromMinor(minor int64) Money { return Money{minor: minor} }

// FromMajor 主单位十进制转金额，四舍五入（远离零）到分
func FromMajor(major decimal.Decimal) Money {
	return Money{minor: major.Mul(scale).Round(0).IntPart()}
}

// ParseMajor 解析 "1234.56" 形式的金额，超出 int64 范围时报错
func ParseMajor(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: invalid amount %q", ErrInvalidArgument, s)
	}
	m, ok := fromMajorChecked(d)
	if !ok {
		return Zero, fmt.Errorf("%w: amount %q out of range", ErrNumericOverflow, s)
	}
	return m, nil
}

// MustParseMajor 仅用于常量和测试
func MustParseMajor(s string) Money {
	m, err := ParseMajor(s)
	if err != nil {
		panic(err)
	}
	return m
}

func fromMajorChecked(major decimal.Decimal) (Money, bool) {
	minor := major.Mul(scale).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return Zero, false
	}
	return Money{minor: minor.IntPart()}, true
}

// Minor 分
func (m Money) Minor() int64 { return m.minor }

// ToMajor 转回主单位
func (m Money) ToMajor() decimal.Decimal {
	return decimal.New(m.minor, -2)
}

func (m Money) Add(o Money) Money { return Money{minor: m.minor + o.minor} }
func (m Money) Sub(o Money) Money { return Money{minor: m.minor - o.minor} }

// Mul 乘以非整数因子，结果四舍五入到分。
// 结果超出 int64 时不保证正确，计算路径上用 mulChecked。
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{minor: decimal.NewFromInt(m.minor).Mul(factor).Round(0).IntPart()}
}

// mulChecked 同 Mul，结果超出 int64 时 ok=false
func (m Money) mulChecked(factor decimal.Decimal) (Money, bool) {
	minor := decimal.NewFromInt(m.minor).Mul(factor).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return Zero, false
	}
	return Money{minor: minor.IntPart()}, true
}

// Div 截断整除；除数为 0 时返回零金额
func (m Money) Div(divisor int) Money {
	if divisor == 0 {
		return Zero
	}
	return Money{minor: m.minor / int64(divisor)}
}

// addChecked 累加前检查 int64 溢出
func (m Money) addChecked(o Money) (Money, bool) {
	if o.minor > 0 && m.minor > math.MaxInt64-o.minor {
		return Zero, false
	}
	if o.minor < 0 && m.minor < math.MinInt64-o.minor {
		return Zero, false
	}
	return Money{minor: m.minor + o.minor}, true
}

func (m Money) Equal(o Money) bool              { return m.minor == o.minor }
func (m Money) LessThan(o Money) bool           { return m.minor < o.minor }
func (m Money) GreaterThan(o Money) bool        { return m.minor > o.minor }
func (m Money) LessThanOrEqual(o Money) bool    { return m.minor <= o.minor }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.minor >= o.minor }
func (m Money) IsZero() bool                    { return m.minor == 0 }
func (m Money) IsPositive() bool                { return m.minor > 0 }
func (m Money) IsNegative() bool                { return m.minor < 0 }

// Max 取较大者
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// String 格式化为 major.minor，固定两位小数
func (m Money) String() string {
	return m.ToMajor().StringFixed(2)
}

// MarshalJSON 以字符串输出，避免浮点
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON 同时接受 "12.34" 和 12.34
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: invalid amount %s", ErrInvalidArgument, data)
	}
	v, ok := fromMajorChecked(d)
	if !ok {
		return fmt.Errorf("%w: amount %s out of range", ErrNumericOverflow, data)
	}
	*m = v
	return nil
}
