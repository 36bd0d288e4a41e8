package loansim

import (
	"fmt"
	"strings"
)

// LoanType 还款方式
type LoanType string

// Strategy 提前还款（超额还款）策略
type Strategy string

const (
	LoanEqualInstallments      LoanType = "EQUAL_INSTALLMENTS"      // 等额本息
	LoanDecreasingInstallments LoanType = "DECREASING_INSTALLMENTS" // 等额本金
)

const (
	StrategyReduceTerm        Strategy = "REDUCE_TERM"        // 缩期
	StrategyReduceInstallment Strategy = "REDUCE_INSTALLMENT" // 减供
)

// MaxTermMonths 最长期限（100 年）
const MaxTermMonths = 1200

func (t LoanType) valid() bool {
	return t == LoanEqualInstallments || t == LoanDecreasingInstallments
}

func (s Strategy) valid() bool {
	return s == StrategyReduceTerm || s == StrategyReduceInstallment
}

// ParseLoanType 接受枚举名（大小写不敏感）或者表格里常用的 0/1 编码
func ParseLoanType(s string) (LoanType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "0", string(LoanEqualInstallments), "EQUAL":
		return LoanEqualInstallments, nil
	case "1", string(LoanDecreasingInstallments), "DECREASING":
		return LoanDecreasingInstallments, nil
	}
	return "", fmt.Errorf("%w: unknown loan type %q", ErrInvalidArgument, s)
}

// ParseStrategy 同 ParseLoanType，0 = 缩期，1 = 减供
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "0", string(StrategyReduceTerm), "TERM":
		return StrategyReduceTerm, nil
	case "1", string(StrategyReduceInstallment), "INSTALLMENT":
		return StrategyReduceInstallment, nil
	}
	return "", fmt.Errorf("%w: unknown overpayment strategy %q", ErrInvalidArgument, s)
}

// ------------------- 输入 -------------------

// LoanDefinition 贷款合同条款，一次模拟内不可变
type LoanDefinition struct {
	Principal  Money    `json:"principal"`
	TermMonths int      `json:"term_months"`
	Type       LoanType `json:"loan_type"`
}

// MarketScenario 每月一个年化利率，长度必须等于期数
type MarketScenario struct {
	AnnualRates []Rate `json:"annual_rates"`
}

// FlatScenario 固定利率是浮动利率的特例。期数不合法时返回空场景，由 Validate 报错。
func FlatScenario(rate Rate, months int) MarketScenario {
	if ValidateTerm(months) != nil {
		return MarketScenario{}
	}
	rates := make([]Rate, months)
	for i := range rates {
		rates[i] = rate
	}
	return MarketScenario{AnnualRates: rates}
}

// SimulationConfig 超额还款策略 + 可选的逐月自定义还款额
type SimulationConfig struct {
	Strategy       Strategy `json:"strategy"`
	CustomPayments []Money  `json:"custom_payments,omitempty"` // nil 表示没有自定义还款
}

// FlatPayments 每月同样的自定义还款额，期数不合法时返回 nil
func FlatPayments(amount Money, months int) []Money {
	if ValidateTerm(months) != nil {
		return nil
	}
	payments := make([]Money, months)
	for i := range payments {
		payments[i] = amount
	}
	return payments
}

// customAt 返回第 month 期的自定义还款额，没有则为零
func (c SimulationConfig) customAt(month int) Money {
	if month < 0 || month >= len(c.CustomPayments) {
		return Zero
	}
	return c.CustomPayments[month]
}

// ------------------- 输出 -------------------

// Installment 单期记录，生成后不再修改
type Installment struct {
	Capital  Money `json:"capital"`
	Interest Money `json:"interest"`
	Payment  Money `json:"payment"`
	Balance  Money `json:"balance"` // 本期还款后的剩余本金
}

// LoanSchedule 完整还款计划，返回后归调用方所有
type LoanSchedule struct {
	Items         []Installment `json:"items"`
	Count         int           `json:"count"`
	TotalInterest Money         `json:"total_interest"`
	TotalPaid     Money         `json:"total_paid"`
}

// TotalPrincipal 已还本金总额
func (s *LoanSchedule) TotalPrincipal() Money {
	return s.TotalPaid.Sub(s.TotalInterest)
}

// Last 最后一期，计划为空时 ok=false
func (s *LoanSchedule) Last() (Installment, bool) {
	if s == nil || len(s.Items) == 0 {
		return Installment{}, false
	}
	return s.Items[len(s.Items)-1], true
}
