package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fashion_scoring"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	uploadSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of staged media uploads in bytes",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 8),
	})

	recordsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Evaluation records written to the upload directory",
	})

	recordsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_deleted_total",
		Help:      "Evaluation records removed by explicit delete",
	})

	recordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_skipped_total",
		Help:      "Records skipped while enumerating the upload directory",
	}, []string{"reason"})

	filesSwept = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_swept_total",
		Help:      "Files removed by the orphan sweeper",
	}, []string{"kind"})

	feedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_feed_clients",
		Help:      "Connected history feed websocket clients",
	})
)

// Middleware records request metrics. The route template is used as path label to keep cardinality low.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveUpload(size int) { uploadSize.Observe(float64(size)) }

func RecordCreated() { recordsCreated.Inc() }

func RecordDeleted() { recordsDeleted.Inc() }

// RecordSkipped counts an enumerated record that was left out. reason is "corrupt" or "orphan".
func RecordSkipped(reason string) { recordsSkipped.WithLabelValues(reason).Inc() }

func FilesSwept(kind string, n int) { filesSwept.WithLabelValues(kind).Add(float64(n)) }

func FeedClientConnected() { feedClients.Inc() }

func FeedClientDisconnected() { feedClients.Dec() }
