// Package httpapi 还款计划的 JSON HTTP 接口。
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/riskmanagement123/loansim"
	"github.com/riskmanagement123/loansim/internal/obs"
)

// Options 接口层参数
type Options struct {
	DefaultLoanType loansim.LoanType
	DefaultStrategy loansim.Strategy
	MaxBodyBytes    int64
	RatePerSecond   int
	RateBurst       int
	TrustProxy      bool // 限流按 X-Forwarded-For 取客户端 IP
	Version         string
}

// API HTTP 层
type API struct {
	engine  *loansim.Engine
	metrics *obs.Metrics
	opts    Options
	router  *mux.Router
}

func New(engine *loansim.Engine, log logrus.FieldLogger, metrics *obs.Metrics, opts Options) *API {
	if opts.DefaultLoanType == "" {
		opts.DefaultLoanType = loansim.LoanEqualInstallments
	}
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = loansim.StrategyReduceTerm
	}
	a := &API{engine: engine, metrics: metrics, opts: opts, router: mux.NewRouter()}

	a.router.Use(RequestID, AccessLog(log))
	a.router.Handle("/healthz", a.metrics.Instrument("/healthz", http.HandlerFunc(a.Healthz))).Methods(http.MethodGet)
	a.router.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	v1 := a.router.PathPrefix("/v1").Subrouter()
	v1.Use(RateLimit(opts.RatePerSecond, opts.RateBurst, opts.TrustProxy), MaxBodyBytes(opts.MaxBodyBytes))
	v1.Handle("/schedules", a.metrics.Instrument("/v1/schedules", http.HandlerFunc(a.CreateSchedule))).Methods(http.MethodPost)

	a.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	a.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	})
	return a
}

func (a *API) Handler() http.Handler { return a.router }

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "loansim",
		"version": a.opts.Version,
	})
}

type scheduleRequest struct {
	Principal      loansim.Money   `json:"principal"`
	TermMonths     int             `json:"term_months"`
	LoanType       string          `json:"loan_type"`
	Strategy       string          `json:"strategy"`
	AnnualRate     *loansim.Rate   `json:"annual_rate"`
	AnnualRates    []loansim.Rate  `json:"annual_rates"`
	CustomPayments []loansim.Money `json:"custom_payments"`
	MonthlyExtra   *loansim.Money  `json:"monthly_extra"`
}

type scheduleResponse struct {
	RequestID      string        `json:"request_id"`
	TotalPrincipal loansim.Money `json:"total_principal"`
	*loansim.LoanSchedule
}

// CreateSchedule POST /v1/schedules
func (a *API) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("invalid request body: %v", err))
		return
	}

	loan, market, cfg, err := a.build(req)
	if err != nil {
		writeFinanceError(w, err)
		return
	}

	schedule, err := a.engine.Simulate(r.Context(), loan, market, cfg)
	if err != nil {
		writeFinanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{
		RequestID:      w.Header().Get(requestIDHeader),
		TotalPrincipal: schedule.TotalPrincipal(),
		LoanSchedule:   schedule,
	})
}

func (a *API) build(req scheduleRequest) (loansim.LoanDefinition, loansim.MarketScenario, loansim.SimulationConfig, error) {
	var (
		loan   loansim.LoanDefinition
		market loansim.MarketScenario
		cfg    loansim.SimulationConfig
	)
	loanType := a.opts.DefaultLoanType
	if req.LoanType != "" {
		t, err := loansim.ParseLoanType(req.LoanType)
		if err != nil {
			return loan, market, cfg, err
		}
		loanType = t
	}
	strategy := a.opts.DefaultStrategy
	if req.Strategy != "" {
		s, err := loansim.ParseStrategy(req.Strategy)
		if err != nil {
			return loan, market, cfg, err
		}
		strategy = s
	}

	loan = loansim.LoanDefinition{Principal: req.Principal, TermMonths: req.TermMonths, Type: loanType}
	switch {
	case req.AnnualRate != nil && req.AnnualRates != nil:
		return loan, market, cfg, fmt.Errorf("%w: annual_rate and annual_rates are mutually exclusive", loansim.ErrInvalidArgument)
	case req.AnnualRate != nil:
		market = loansim.FlatScenario(*req.AnnualRate, req.TermMonths)
	default:
		market = loansim.MarketScenario{AnnualRates: req.AnnualRates}
	}

	cfg = loansim.SimulationConfig{Strategy: strategy, CustomPayments: req.CustomPayments}
	if req.MonthlyExtra != nil && req.MonthlyExtra.IsPositive() {
		if cfg.CustomPayments != nil {
			return loan, market, cfg, fmt.Errorf("%w: monthly_extra and custom_payments are mutually exclusive", loansim.ErrInvalidArgument)
		}
		cfg.CustomPayments = loansim.FlatPayments(*req.MonthlyExtra, req.TermMonths)
	}
	return loan, market, cfg, nil
}

func writeFinanceError(w http.ResponseWriter, err error) {
	code := loansim.CodeOf(err)
	if code == "" {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	resp := map[string]any{"code": code, "error": err.Error()}
	var se *loansim.StepError
	if errors.As(err, &se) {
		resp["month"] = se.Month
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"code": code, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
