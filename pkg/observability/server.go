package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	metricsPath       = "/metrics"
	readHeaderTimeout = 5 * time.Second
)

// MetricsServer serves a metrics handler on its own listener for the
// lifetime of a run.
type MetricsServer struct {
	server   *http.Server
	listener net.Listener
	done     chan error
}

// StartMetricsServer listens on addr and serves handler at /metrics.
func StartMetricsServer(addr string, handler http.Handler, logger *slog.Logger) (*MetricsServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)

	ms := &MetricsServer{
		server:   &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout},
		listener: listener,
		done:     make(chan error, 1),
	}

	go func() {
		serveErr := ms.server.Serve(listener)
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}

		ms.done <- serveErr
	}()

	if logger != nil {
		logger.Info("serving metrics", "addr", ms.Addr(), "path", metricsPath)
	}

	return ms, nil
}

// Addr returns the bound address, useful when addr had port 0.
func (ms *MetricsServer) Addr() string {
	return ms.listener.Addr().String()
}

// Shutdown stops accepting scrapes and waits for the serve loop to exit.
func (ms *MetricsServer) Shutdown(ctx context.Context) error {
	err := ms.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}

	return <-ms.done
}
