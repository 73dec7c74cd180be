// Package gateway implements the edge gateway: every inbound request is
// classified against the aggregate route table, protected requests must
// carry a valid bearer token, and surviving requests are forwarded to
// the owning backend service.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dejanjanjic/report-incident-backend/config"
	authmw "github.com/dejanjanjic/report-incident-backend/internal/adapters/http/middleware"
	"github.com/dejanjanjic/report-incident-backend/internal/routepolicy"
	"github.com/dejanjanjic/report-incident-backend/internal/usecase"
	pkglog "github.com/dejanjanjic/report-incident-backend/pkg/log"
)

type Server struct {
	cfg    *config.GatewayConfig
	logger pkglog.Logger
	echo   *echo.Echo
}

func New(cfg *config.GatewayConfig) (*Server, error) {
	log := pkglog.New(cfg.AppEnv, cfg.AppName)

	table, err := routepolicy.LoadGateway(cfg.RouteRulesPath)
	if err != nil {
		return nil, err
	}
	signer, err := usecase.NewJWTSigner(cfg.JWT)
	if err != nil {
		return nil, err
	}
	guard := authmw.NewRouteGuard(table, signer)
	forwarder := NewForwarder(15*time.Second, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(guard.Handler)

	e.GET("/actuator/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "UP"})
	})

	s := &Server{cfg: cfg, logger: log, echo: e}
	s.mountBackends(forwarder)
	return s, nil
}

// mountBackends wires each backend's route namespace to its forwarder.
// The auth service additionally owns the browser-facing OAuth paths.
func (s *Server) mountBackends(f *Forwarder) {
	auth := f.Handler(s.cfg.AuthServiceURL)
	s.echo.Any("/api/v1/auth/*", auth)
	s.echo.Any("/login/*", auth)
	s.echo.Any("/oauth2/*", auth)
	s.echo.Any("/auth-service/actuator/health", f.HandlerStripPrefix(s.cfg.AuthServiceURL, "/auth-service"))

	incidents := f.Handler(s.cfg.IncidentServiceURL)
	s.echo.Any("/api/v1/incidents", incidents)
	s.echo.Any("/api/v1/incidents/*", incidents)
	s.echo.Any("/incident-service/actuator/health", f.HandlerStripPrefix(s.cfg.IncidentServiceURL, "/incident-service"))

	moderation := f.Handler(s.cfg.ModerationServiceURL)
	s.echo.Any("/api/v1/moderation", moderation)
	s.echo.Any("/api/v1/moderation/*", moderation)
	s.echo.Any("/moderation-service/actuator/health", f.HandlerStripPrefix(s.cfg.ModerationServiceURL, "/moderation-service"))
}

// Echo exposes the underlying router, used by tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- s.echo.Start(fmt.Sprintf("%s:%s", s.cfg.HTTPHost, s.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
