package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Config for the metrics endpoint.
type Config struct {
	Port int `default:"9090"`
}

// Server exposes /metrics on its own port.
type Server struct {
	e    *echo.Echo
	port int
}

// StartMetricsServer registers the given services' metrics and serves
// them in the background. Returns the server for shutdown.
func StartMetricsServer(cfg Config, services []string, logger *logrus.Logger) *Server {
	RegisterMetrics(services, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	srv := &Server{e: e, port: cfg.Port}
	go func() {
		err := e.Start(fmt.Sprintf(":%d", cfg.Port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server failed: %v", err)
		}
	}()
	logger.Infof("metrics server listening on :%d", cfg.Port)

	return srv
}

// Stop shuts the metrics server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
