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

const (
	OutcomeReserved = "reserved"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"

	// UnmatchedRoute labels requests no route handled.
	UnmatchedRoute = "unmatched"
	metricsPath    = "/metrics"
)

var (
	RequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by route template and status",
	}, []string{"method", "path", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests by route template",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CartReservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_reservations_total",
		Help: "Stock reservations attempted by the cart, by outcome",
	}, []string{"outcome"})

	ProductReservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_reservations_total",
		Help: "Stock reservations handled by the catalog, by outcome",
	}, []string{"outcome"})
)

// Route returns the matched route template, e.g. /cart/items/:productId.
func Route(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return UnmatchedRoute
}

func Middleware(c *gin.Context) {
	if c.FullPath() == metricsPath {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()

	route := Route(c)
	RequestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
