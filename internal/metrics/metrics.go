package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerforge_http_requests_total",
		Help: "HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "careerforge_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	llmCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerforge_llm_calls_total",
		Help: "Model calls by operation and outcome.",
	}, []string{"op", "outcome"})

	attemptEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "careerforge_attempt_events_total",
		Help: "Live attempt lifecycle events.",
	}, []string{"event"})
)

// ObserveLLMCall records one model call outcome ("ok", "malformed", "error").
func ObserveLLMCall(op, outcome string) {
	llmCalls.WithLabelValues(op, outcome).Inc()
}

// ObserveAttemptEvent records an attempt lifecycle event.
func ObserveAttemptEvent(event string) {
	attemptEvents.WithLabelValues(event).Inc()
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
