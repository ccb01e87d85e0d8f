package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Значения метки decision у shop_gate_decisions_total
const (
	DecisionPreflight = "preflight"
	DecisionOpen      = "open"
	DecisionAllowed   = "allowed"
	DecisionRedirect  = "redirect"
	DecisionLoginPage = "login_page"
	DecisionError     = "error"
	DecisionPanic     = "panic"
)

// Metrics набор метрик сервиса. Nil *Metrics допустим: вызовы ничего не делают.
type Metrics struct {
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	GateDecisionsTotal         *prometheus.CounterVec
	CodeRequestsTotal          *prometheus.CounterVec
	CodeVerificationsTotal     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в reg
func New(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests.",
				ConstLabels: labels,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Duration of HTTP requests.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"method", "path"},
		),
		GateDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "shop_gate_decisions_total",
				Help:        "Session gate decisions by outcome.",
				ConstLabels: labels,
			},
			[]string{"decision"},
		),
		CodeRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "shop_auth_code_requests_total",
				Help:        "Login code requests by result.",
				ConstLabels: labels,
			},
			[]string{"result"},
		),
		CodeVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "shop_auth_code_verifications_total",
				Help:        "Login code verifications by result.",
				ConstLabels: labels,
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.GateDecisionsTotal,
		m.CodeRequestsTotal,
		m.CodeVerificationsTotal,
	)
	return m
}

func (m *Metrics) GateDecision(decision string) {
	if m == nil {
		return
	}
	m.GateDecisionsTotal.WithLabelValues(decision).Inc()
}

func (m *Metrics) CodeRequested(result string) {
	if m == nil {
		return
	}
	m.CodeRequestsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) CodeVerified(result string) {
	if m == nil {
		return
	}
	m.CodeVerificationsTotal.WithLabelValues(result).Inc()
}

// HTTP gin middleware, считающий запросы и их длительность.
// Путь берется из шаблона маршрута, чтобы не раздувать кардинальность.
func (m *Metrics) HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
