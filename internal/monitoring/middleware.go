package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for HTTP metrics collection.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	}
}

// Timer measures a single operation's duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
	tool    string
}

// NewTimer starts a timer for a tool invocation.
func NewTimer(metrics *Metrics, tool string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, tool: tool}
}

// Stop stops the timer and records the invocation outcome.
func (t *Timer) Stop(outcome string) {
	t.metrics.RecordToolCall(t.tool, outcome, time.Since(t.start))
}
