package loansim

// ResolvePayment 决定本月实际扣款：
//   - 有自定义还款时必须满足 利息 <= 还款 <= 余额+利息
//   - REDUCE_INSTALLMENT 直接用本月重算的理论月供
//   - REDUCE_TERM 月供只增不减，取 max(理论月供, 上月实还)
//
// 最后兜底：结果不超过利息时抬到 利息+1 分；金额溢出返回 ErrNumericOverflow。
func ResolvePayment(config SimulationConfig, state SimulationState, baseline, interest Money) (Money, error) {
	var payment Money
	if custom := config.customAt(state.Month); custom.IsPositive() {
		// 余额+利息溢出时上限比任何 int64 都大，不会超限
		if limit, ok := state.Balance.addChecked(interest); ok && custom.GreaterThan(limit) {
			return Zero, ErrPaymentTooLarge
		}
		if custom.LessThan(interest) {
			return Zero, ErrNegativeAmortization
		}
		payment = custom
	} else {
		switch config.Strategy {
		case StrategyReduceInstallment:
			payment = baseline
		case StrategyReduceTerm:
			payment = baseline
			if state.Month > 0 {
				payment = Max(baseline, state.LastTotalPayment)
			}
		default:
			return Zero, ErrInvalidArgument
		}
	}

	if payment.LessThanOrEqual(interest) {
		floor, ok := interest.addChecked(FromMinor(1))
		if !ok {
			return Zero, ErrNumericOverflow
		}
		payment = floor
	}
	return payment, nil
}
