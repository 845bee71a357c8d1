package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Server answers liveness probes for binaries that have no API port of
// their own.
type Server struct {
	e    *echo.Echo
	port int
}

// New creates a health server on the given port.
func New(port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return &Server{e: e, port: port}
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context, logger *logrus.Logger) error {
	go func() {
		<-ctx.Done()
		if err := s.e.Shutdown(context.Background()); err != nil {
			logger.Errorf("failed to shut down health server: %v", err)
		}
	}()

	logger.Infof("health server listening on :%d", s.port)
	err := s.e.Start(fmt.Sprintf(":%d", s.port))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run health server: %w", err)
	}
	return nil
}
