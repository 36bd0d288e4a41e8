package loansim

import (
	"github.com/shopspring/decimal"
)

// powPrecision (1+r)^n 每次乘法后保留的小数位
const powPrecision = 34

// maxFactorDigits 年金因子整数部分的位数上限，超过视为数值溢出
const maxFactorDigits = 4000

var one = decimal.NewFromInt(1)

// MonthlyInterest 本月利息 = 上月结转余额 × 年利率/12，利率为 0 时直接返回 0。
// 利息超出 int64 时返回 ErrNumericOverflow。
func MonthlyInterest(balance Money, rate Rate) (Money, error) {
	if rate.IsZero() {
		return Zero, nil
	}
	interest, ok := balance.mulChecked(rate.Monthly())
	if !ok {
		return Zero, ErrNumericOverflow
	}
	return interest, nil
}

// BaselinePayment 计算本月理论应还金额（等额本息 / 等额本金）
func BaselinePayment(loan LoanDefinition, market MarketScenario, state SimulationState, interest Money) (Money, error) {
	remaining := loan.TermMonths - state.Month
	switch loan.Type {
	case LoanEqualInstallments:
		if state.Month < 0 || state.Month >= len(market.AnnualRates) {
			return Zero, ErrInvalidMonths
		}
		pmt, err := AnnuityPayment(state.Balance, remaining, market.AnnualRates[state.Month].Monthly())
		if err != nil {
			return Zero, err
		}
		// 不足以覆盖利息时抬到 利息+1 分，否则永远还不完
		if pmt.LessThan(interest) && remaining > 1 {
			bumped, ok := interest.addChecked(FromMinor(1))
			if !ok {
				return Zero, ErrNumericOverflow
			}
			pmt = bumped
		}
		return pmt, nil
	case LoanDecreasingInstallments:
		pmt, ok := state.Balance.Div(remaining).addChecked(interest)
		if !ok {
			return Zero, ErrNumericOverflow
		}
		return pmt, nil
	default:
		return Zero, ErrInvalidArgument
	}
}

// AnnuityPayment 等额本息月供 P = B·r·(1+r)^n / ((1+r)^n − 1)
func AnnuityPayment(balance Money, months int, monthlyRate decimal.Decimal) (Money, error) {
	if balance.LessThanOrEqual(Zero) {
		return Zero, nil
	}
	if months <= 0 {
		return balance, nil
	}
	if monthlyRate.IsNegative() {
		return Zero, ErrInvalidRate
	}
	if monthlyRate.IsZero() {
		return balance.Div(months), nil
	}

	factor, ok := powRounded(one.Add(monthlyRate), months)
	if !ok {
		return Zero, ErrNumericOverflow
	}
	denominator := factor.Sub(one)
	if denominator.Sign() <= 0 {
		return Zero, ErrNumericOverflow
	}

	exact := decimal.NewFromInt(balance.Minor()).Mul(monthlyRate).Mul(factor).Div(denominator)
	pmt, ok := fromMinorChecked(exact)
	if !ok {
		return Zero, ErrNumericOverflow
	}
	return pmt, nil
}

// powRounded 快速幂，逐次舍入到 powPrecision 位，避免位数爆炸
func powRounded(base decimal.Decimal, n int) (decimal.Decimal, bool) {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(powPrecision)
			if tooLarge(result) {
				return decimal.Zero, false
			}
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base).Round(powPrecision)
			if tooLarge(base) {
				return decimal.Zero, false
			}
		}
	}
	return result, true
}

func tooLarge(d decimal.Decimal) bool {
	return d.NumDigits()+int(d.Exponent()) > maxFactorDigits
}

func fromMinorChecked(minor decimal.Decimal) (Money, bool) {
	minor = minor.Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return Zero, false
	}
	return FromMinor(minor.IntPart()), true
}
