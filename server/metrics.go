package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/spektr-org/dexboard/engine"
)

var (
	requestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexboard_requests_total",
			Help: "Dashboard requests by view and HTTP status.",
		},
		[]string{"view", "status"},
	)

	viewHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dexboard_request_duration_seconds",
			Help:    "Latency to compute and encode a view.",
			Buckets: prometheus.LinearBuckets(0.005, 0.025, 10),
		},
		[]string{"view"},
	)
)

// Instrument starts a latency timer; call the result with the view label
// once it is known.
func Instrument() func(view string) time.Duration {
	start := time.Now()
	return func(view string) time.Duration {
		elapsed := time.Since(start)
		viewHistogram.WithLabelValues(view).Observe(elapsed.Seconds())
		return elapsed
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	view   string
}

// labelView names the view a request resolved to. Unknown views keep the
// route label so arbitrary paths cannot grow the label set.
func labelView(w http.ResponseWriter, view engine.ViewKind) {
	rec, ok := w.(*statusRecorder)
	if !ok {
		return
	}
	for _, known := range engine.ViewKinds() {
		if view == known {
			rec.view = string(view)
			return
		}
	}
}

func (self *statusRecorder) WriteHeader(status int) {
	self.status = status
	self.ResponseWriter.WriteHeader(status)
}

// recordStats counts responses per view and status and logs each request.
func (self *Server) recordStats(view string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		done := Instrument()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK, view: view}

		next(rec, r)

		elapsed := done(rec.view)
		requestCounter.WithLabelValues(rec.view, strconv.Itoa(rec.status)).Inc()
		self.logger.WithFields(logrus.Fields{
			"view":     rec.view,
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": elapsed.String(),
		}).Debug("request")
	}
}
