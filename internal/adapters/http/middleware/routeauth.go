package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dejanjanjic/report-incident-backend/internal/routepolicy"
	"github.com/dejanjanjic/report-incident-backend/internal/tokenverify"
	res "github.com/dejanjanjic/report-incident-backend/pkg/http"
)

// RouteGuard gates every request through the route classification
// table. Permitted routes pass untouched; everything else must carry a
// valid bearer token.
type RouteGuard struct {
	table  *routepolicy.Table
	parser tokenverify.Parser
}

func NewRouteGuard(table *routepolicy.Table, parser tokenverify.Parser) *RouteGuard {
	return &RouteGuard{table: table, parser: parser}
}

func (g *RouteGuard) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if g.table.Classify(req.Method, req.URL.Path) == routepolicy.Permit {
			return next(c)
		}

		authz := req.Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "missing token", requestIDFromCtx(c))
		}
		result, err := tokenverify.Verify(g.parser, parts[1], time.Now)
		if err != nil {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "invalid token", requestIDFromCtx(c))
		}

		c.Set("user_id", result.UserID)
		c.Set("email", result.Email)
		c.Set("role", result.Role)
		return next(c)
	}
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
