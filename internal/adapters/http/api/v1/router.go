package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/dejanjanjic/report-incident-backend/internal/adapters/http/api/v1/handlers"
)

type Router struct {
	handlers *handlers.AuthHandler
}

func NewRouter(h *handlers.AuthHandler) *Router {
	return &Router{handlers: h}
}

// Register mounts the versioned API routes under the base path group.
func (r *Router) Register(g *echo.Group) {
	auth := g.Group("/auth")
	auth.GET("/login", r.handlers.Login)
}

// RegisterOAuth mounts the provider-facing endpoints, which live at the
// server root rather than under the API base path.
func (r *Router) RegisterOAuth(e *echo.Echo) {
	e.GET(handlers.AuthorizePath, r.handlers.Authorize)
	e.GET(handlers.CallbackPath, r.handlers.Callback)
}
