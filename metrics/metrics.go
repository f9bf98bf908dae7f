package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codehub",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codehub",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codehub",
			Subsystem: "core",
			Name:      "operations_total",
			Help:      "Project operations by name and result.",
		},
		[]string{"operation", "result"},
	)
	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codehub",
			Subsystem: "renderer",
			Name:      "render_duration_seconds",
			Help:      "Time spent inlining a project into one document.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"mode"},
	)
	renderCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codehub",
			Subsystem: "renderer",
			Name:      "cache_lookups_total",
			Help:      "Render cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Register()
}

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			operationsTotal,
			renderDuration,
			renderCacheTotal,
		)
	})
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// GinMiddleware records request counts and latency per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveOperation counts one core operation such as "create_commit".
func ObserveOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveRender records how long a render took; mode is "deployment" or "preview".
func ObserveRender(mode string, duration time.Duration) {
	renderDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// ObserveCacheLookup records a render cache hit or miss.
func ObserveCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	renderCacheTotal.WithLabelValues(outcome).Inc()
}
