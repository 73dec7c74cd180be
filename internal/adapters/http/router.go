package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dejanjanjic/report-incident-backend/config"
	v1 "github.com/dejanjanjic/report-incident-backend/internal/adapters/http/api/v1"
	internalhttp "github.com/dejanjanjic/report-incident-backend/internal/adapters/http/internal"
	authmw "github.com/dejanjanjic/report-incident-backend/internal/adapters/http/middleware"
)

type Router struct {
	cfg       *config.Config
	apiRouter *v1.Router
	guard     *authmw.RouteGuard
}

func NewRouter(cfg *config.Config, apiRouter *v1.Router, guard *authmw.RouteGuard) *Router {
	return &Router{cfg: cfg, apiRouter: apiRouter, guard: guard}
}

func (r *Router) Setup(e *echo.Echo) {
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	// the service's own gate, independent of the edge gateway
	e.Use(r.guard.Handler)

	internalhttp.Register(e)
	r.apiRouter.RegisterOAuth(e)
	apiGroup := e.Group(r.cfg.HTTPBasePath)
	r.apiRouter.Register(apiGroup)
}
