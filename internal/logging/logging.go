package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/riskmanagement123/loansim"
)

// New 构造 logger；级别解析失败回落到 info，format 为 json 时输出 JSON
func New(level, format string) *logrus.Logger {
	return NewWithOutput(os.Stderr, level, format)
}

func NewWithOutput(w io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

// Plugin 在模拟前后打日志，核心引擎本身不打日志
type Plugin struct {
	Log logrus.FieldLogger
}

func NewPlugin(log logrus.FieldLogger) *Plugin {
	return &Plugin{Log: log}
}

func (p *Plugin) Name() string { return "logging" }

func (p *Plugin) BeforeSimulate(ctx *loansim.SimulationContext) error {
	p.fields(ctx).Debug("simulation started")
	return nil
}

func (p *Plugin) AfterSimulate(ctx *loansim.SimulationContext) error {
	entry := p.fields(ctx)
	if ctx.Err != nil {
		entry.WithField("code", loansim.CodeOf(ctx.Err)).WithError(ctx.Err).Warn("simulation failed")
		return nil
	}
	entry.WithFields(logrus.Fields{
		"installments":   ctx.Schedule.Count,
		"total_interest": ctx.Schedule.TotalInterest.String(),
		"total_paid":     ctx.Schedule.TotalPaid.String(),
	}).Info("simulation finished")
	return nil
}

func (p *Plugin) fields(ctx *loansim.SimulationContext) *logrus.Entry {
	fields := logrus.Fields{
		"principal":   ctx.Loan.Principal.String(),
		"term_months": ctx.Loan.TermMonths,
		"loan_type":   ctx.Loan.Type,
		"strategy":    ctx.Config.Strategy,
		"custom":      ctx.Config.CustomPayments != nil,
	}
	if id := RequestID(ctx.Context); id != "" {
		fields["request_id"] = id
	}
	return p.Log.WithFields(fields)
}

type requestIDKey struct{}

// WithRequestID 把请求 ID 放进 context，插件日志会带上
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
