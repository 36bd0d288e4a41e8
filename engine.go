package loansim

import (
	"context"

	"github.com/shopspring/decimal"
)

// Plugin 围绕一次模拟的扩展点（日志、指标、审计等）
type Plugin interface {
	Name() string
	BeforeSimulate(ctx *SimulationContext) error
	AfterSimulate(ctx *SimulationContext) error
}

type Plugins []Plugin

// SimulationContext 插件看到的上下文。
// Before 阶段可以改写 Config（例如补默认策略），After 阶段 Schedule 或 Err 二者有一。
type SimulationContext struct {
	Context  context.Context
	Loan     LoanDefinition
	Market   MarketScenario
	Config   SimulationConfig
	Schedule *LoanSchedule
	Err      error
	Params   map[string]any
}

// Config 引擎配置
type Config struct {
	MaxAnnualRate decimal.Decimal // 年利率上限，零值不限制
}

// Engine 统一入口：校验 + 插件链 + 模拟
type Engine struct {
	cfg     Config
	plugins Plugins
}

func NewEngine(c Config, plugins ...Plugin) *Engine {
	e := &Engine{cfg: c}
	e.Use(plugins...)
	return e
}

// Use 追加插件，Before 按注册顺序执行，After 逆序
func (e *Engine) Use(plugins ...Plugin) {
	e.plugins = append(e.plugins, plugins...)
}

func (e *Engine) Config() Config { return e.cfg }

// Simulate 带上限校验的模拟。After 插件在失败时也会执行（ctx.Err 非空），
// 用来记录失败结果；此时返回的仍是模拟本身的错误。
func (e *Engine) Simulate(ctx context.Context, loan LoanDefinition, market MarketScenario, config SimulationConfig) (*LoanSchedule, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sc := &SimulationContext{
		Context: ctx,
		Loan:    loan,
		Market:  market,
		Config:  config,
		Params:  map[string]any{},
	}
	for _, p := range e.plugins {
		if err := p.BeforeSimulate(sc); err != nil {
			return nil, err
		}
	}

	sc.Schedule, sc.Err = runLoanSimulation(sc.Loan, sc.Market, sc.Config, Limits{MaxAnnualRate: e.cfg.MaxAnnualRate})

	for i := len(e.plugins) - 1; i >= 0; i-- {
		if err := e.plugins[i].AfterSimulate(sc); err != nil && sc.Err == nil {
			return nil, err
		}
	}
	if sc.Err != nil {
		return nil, sc.Err
	}
	return sc.Schedule, nil
}
