// Package server exposes the dashboard over HTTP: dropdown options, one JSON
// endpoint per view, PNG charts, health and Prometheus metrics.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/dexboard/config"
	"github.com/spektr-org/dexboard/engine"
)

// ShutdownTimeout bounds how long in-flight requests may run after the
// context is cancelled.
const ShutdownTimeout = 10 * time.Second

// Server serves one loaded dataset. The dataset is read-only after load so
// handlers share it without locking.
type Server struct {
	config    *config.Config
	dataset   *engine.Dataset
	dropdowns engine.Dropdowns
	options   []engine.Option
	logger    logrus.FieldLogger
}

// New prepares a server for ds. A nil logger discards.
func New(c *config.Config, ds *engine.Dataset, logger logrus.FieldLogger) *Server {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	if c == nil {
		c = config.Default()
	}
	return &Server{
		config:    c,
		dataset:   ds,
		dropdowns: engine.BuildDropdowns(ds),
		options:   append(c.EngineOptions(), engine.WithLogger(logger)),
		logger:    logger,
	}
}

// Handler routes every endpoint.
func (self *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/options", self.recordStats("options", self.handleOptions))
	mux.HandleFunc("GET /api/controls", self.recordStats("controls", self.handleControls))
	mux.HandleFunc("GET /api/{view}", self.recordStats("view", self.handleView))
	mux.HandleFunc("POST /api/view", self.recordStats("view", self.handleViewPost))
	mux.HandleFunc("GET /chart/{view}", self.recordStats("chart", self.handleChart))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if self.config.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	return mux
}

// Run listens on the configured address until ctx is cancelled.
func (self *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", self.config.ListenAddr())
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	return self.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for up to ShutdownTimeout.
func (self *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           self.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		self.logger.WithFields(logrus.Fields{
			"addr":    ln.Addr().String(),
			"dataset": self.dataset.Name,
		}).Info("Dashboard listening")

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		self.logger.Info("Server is shutting down...")
		if err := srv.Shutdown(shutdown); err != nil {
			return errors.Wrap(err, "could not gracefully shutdown the server")
		}
		return nil
	})
	return g.Wait()
}
