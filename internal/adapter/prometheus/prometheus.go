package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bike_registry"

type PrometheusAdapter struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	savesTotal      *prometheus.CounterVec
}

// NewPrometheusAdapter registers the collectors on reg.
func NewPrometheusAdapter(reg prometheus.Registerer) *PrometheusAdapter {
	factory := promauto.With(reg)

	return &PrometheusAdapter{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of handled HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to handle HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		savesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bike_saves_total",
			Help:      "The total number of bike saves by outcome",
		}, []string{"outcome"}),
	}
}

func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	method := c.Request.Method

	p.requestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func (p *PrometheusAdapter) RecordSave(outcome string) {
	p.savesTotal.WithLabelValues(outcome).Inc()
}
