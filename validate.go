package loansim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Limits 更严格的校验参数，零值表示不限制
type Limits struct {
	MaxAnnualRate decimal.Decimal
}

// ValidateTerm 期数必须在 1..MaxTermMonths，按期数分配切片前先调用
func ValidateTerm(months int) error {
	if months <= 0 || months > MaxTermMonths {
		return ErrInvalidMonths
	}
	return nil
}

// Validate 模拟前一次性校验所有输入，后续按下标访问不再检查
func Validate(loan LoanDefinition, market MarketScenario, config SimulationConfig, limits Limits) error {
	if !loan.Principal.IsPositive() {
		return ErrInvalidPrincipal
	}
	if err := ValidateTerm(loan.TermMonths); err != nil {
		return err
	}
	if len(market.AnnualRates) == 0 {
		return ErrNullRates
	}
	if len(market.AnnualRates) != loan.TermMonths {
		return fmt.Errorf("%w: %d rates for %d months", ErrInvalidArgument, len(market.AnnualRates), loan.TermMonths)
	}
	capped := limits.MaxAnnualRate.IsPositive()
	for i, r := range market.AnnualRates {
		if r.annual.IsNegative() {
			return fmt.Errorf("%w: month %d rate %s is negative", ErrInvalidRate, i+1, r)
		}
		if capped && r.annual.GreaterThan(limits.MaxAnnualRate) {
			return fmt.Errorf("%w: month %d rate %s exceeds %s", ErrInvalidRate, i+1, r, limits.MaxAnnualRate)
		}
	}

	if !loan.Type.valid() {
		return fmt.Errorf("%w: unknown loan type %q", ErrInvalidArgument, loan.Type)
	}
	if !config.Strategy.valid() {
		return fmt.Errorf("%w: unknown overpayment strategy %q", ErrInvalidArgument, config.Strategy)
	}
	if config.CustomPayments != nil {
		if len(config.CustomPayments) != loan.TermMonths {
			return fmt.Errorf("%w: %d custom payments for %d months", ErrInvalidArgument, len(config.CustomPayments), loan.TermMonths)
		}
		for i, p := range config.CustomPayments {
			if p.IsNegative() {
				return fmt.Errorf("%w: month %d custom payment %s is negative", ErrInvalidArgument, i+1, p)
			}
		}
	}
	return nil
}
