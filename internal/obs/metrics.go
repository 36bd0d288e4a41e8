package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskmanagement123/loansim"
)

const startedKey = "obs.started"

// Metrics HTTP 指标 + 模拟结果指标
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	simulationsTotal     *prometheus.CounterVec
	simulationDuration   prometheus.Histogram
	scheduleInstallments prometheus.Histogram
}

// NewMetrics 每个实例一个独立 registry，测试之间互不干扰
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		simulationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loansim_simulations_total",
				Help: "Loan simulations by outcome and error code.",
			},
			[]string{"outcome", "code"},
		),
		simulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loansim_simulation_duration_seconds",
			Help:    "Wall time of a single loan simulation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		scheduleInstallments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loansim_schedule_installments",
			Help:    "Number of installments in produced schedules.",
			Buckets: []float64{6, 12, 24, 60, 120, 240, 360, 600, 1200},
		}),
	}
	m.registry.MustRegister(
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.simulationsTotal, m.simulationDuration, m.scheduleInstallments,
	)
	return m
}

// Registry 测试用
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument 记录 RPS/latency/在途请求。path 用路由模板，避免高基数。
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		m.httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// Plugin 引擎插件：按结果计数
func (m *Metrics) Plugin() loansim.Plugin { return metricsPlugin{m} }

type metricsPlugin struct{ m *Metrics }

func (metricsPlugin) Name() string { return "metrics" }

func (metricsPlugin) BeforeSimulate(ctx *loansim.SimulationContext) error {
	ctx.Params[startedKey] = time.Now()
	return nil
}

func (p metricsPlugin) AfterSimulate(ctx *loansim.SimulationContext) error {
	if started, ok := ctx.Params[startedKey].(time.Time); ok {
		p.m.simulationDuration.Observe(time.Since(started).Seconds())
	}
	if ctx.Err != nil {
		code := string(loansim.CodeOf(ctx.Err))
		if code == "" {
			code = "UNKNOWN"
		}
		p.m.simulationsTotal.WithLabelValues("error", code).Inc()
		return nil
	}
	p.m.simulationsTotal.WithLabelValues("ok", "").Inc()
	p.m.scheduleInstallments.Observe(float64(ctx.Schedule.Count))
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
