package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// GradingEvents counts state transitions of attempts and submissions.
	GradingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_grading_events_total",
			Help: "Attempt and submission state transitions",
		},
		[]string{"event"},
	)

	// DomainErrors counts client-correctable rejections by kind.
	DomainErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_domain_errors_total",
			Help: "Rejected operations by error kind",
		},
		[]string{"kind"},
	)

	AttemptPercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lms_attempt_percentage",
			Help:    "Percentage scored on finished quiz attempts",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

const (
	EventAttemptStarted    = "attempt_started"
	EventAnswerRecorded    = "answer_recorded"
	EventAttemptFinished   = "attempt_finished"
	EventSubmitted         = "submitted"
	EventResubmitted       = "auto_grade_replaced"
	EventGraded            = "graded"
	EventAutoGraded        = "auto_graded"
	EventNotificationError = "notification_failed"
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(GradingEvents)
		prometheus.MustRegister(DomainErrors)
		prometheus.MustRegister(AttemptPercentage)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
