package loansim

// SimulationState 模拟游标，只由 Step 修改
type SimulationState struct {
	Balance          Money // 当前剩余本金
	LastTotalPayment Money // 上一期实还总额
	Month            int   // 当前期，从 0 开始
}

// NewSimulationState 初始状态：余额 = 本金
func NewSimulationState(principal Money) SimulationState {
	return SimulationState{Balance: principal}
}

// IsComplete 余额归零或期数用完
func (s SimulationState) IsComplete(loan LoanDefinition) bool {
	return s.Balance.LessThanOrEqual(Zero) || s.Month >= loan.TermMonths
}

// Step 推进一期：利息 -> 理论月供 -> 实际扣款 -> 更新余额。
// 出错时状态保持不变。
func Step(loan LoanDefinition, market MarketScenario, config SimulationConfig, state *SimulationState) (Installment, error) {
	if state == nil {
		return Installment{}, ErrInvalidArgument
	}
	if state.Month < 0 || state.Month >= loan.TermMonths || state.Month >= len(market.AnnualRates) {
		return Installment{}, ErrInvalidMonths
	}

	interest, err := MonthlyInterest(state.Balance, market.AnnualRates[state.Month])
	if err != nil {
		return Installment{}, err
	}

	baseline, err := BaselinePayment(loan, market, *state, interest)
	if err != nil {
		return Installment{}, err
	}
	payment, err := ResolvePayment(config, *state, baseline, interest)
	if err != nil {
		return Installment{}, err
	}

	capital := payment.Sub(interest)
	if capital.GreaterThan(state.Balance) {
		capital = state.Balance
	}
	// 最后一期或者本期已能结清：本金一次还完，月供按实际重算
	lastMonth := state.Month == loan.TermMonths-1
	if lastMonth || capital.Equal(state.Balance) {
		capital = state.Balance
		var ok bool
		if payment, ok = capital.addChecked(interest); !ok {
			return Installment{}, ErrNumericOverflow
		}
	}

	balance := state.Balance.Sub(capital)
	if balance.IsNegative() {
		balance = Zero
	}

	state.LastTotalPayment = payment
	state.Balance = balance
	state.Month++

	return Installment{
		Capital:  capital,
		Interest: interest,
		Payment:  payment,
		Balance:  balance,
	}, nil
}

// RunLoanSimulation 生成完整还款计划。任何错误都不返回部分结果。
func RunLoanSimulation(loan LoanDefinition, market MarketScenario, config SimulationConfig) (*LoanSchedule, error) {
	return runLoanSimulation(loan, market, config, Limits{})
}

func runLoanSimulation(loan LoanDefinition, market MarketScenario, config SimulationConfig, limits Limits) (*LoanSchedule, error) {
	if err := Validate(loan, market, config, limits); err != nil {
		return nil, err
	}

	schedule := &LoanSchedule{Items: make([]Installment, 0, loan.TermMonths)}
	state := NewSimulationState(loan.Principal)

	for !state.IsComplete(loan) {
		month := state.Month + 1
		inst, err := Step(loan, market, config, &state)
		if err != nil {
			return nil, &StepError{Month: month, Err: err}
		}

		totalInterest, ok := schedule.TotalInterest.addChecked(inst.Interest)
		if !ok {
			return nil, &StepError{Month: month, Err: ErrNumericOverflow}
		}
		totalPaid, ok := schedule.TotalPaid.addChecked(inst.Payment)
		if !ok {
			return nil, &StepError{Month: month, Err: ErrNumericOverflow}
		}

		schedule.Items = append(schedule.Items, inst)
		schedule.TotalInterest = totalInterest
		schedule.TotalPaid = totalPaid
	}

	schedule.Count = len(schedule.Items)
	return schedule, nil
}
