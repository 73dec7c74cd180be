package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/dejanjanjic/report-incident-backend/internal/routepolicy"
	res "github.com/dejanjanjic/report-incident-backend/pkg/http"
)

type stubParser struct {
	respToken  *jwt.Token
	respClaims jwt.MapClaims
	respErr    error
}

func (s stubParser) Parse(string) (*jwt.Token, jwt.MapClaims, error) {
	return s.respToken, s.respClaims, s.respErr
}

func testTable() *routepolicy.Table {
	return routepolicy.NewTable([]routepolicy.Rule{
		{Method: routepolicy.MethodAny, Pattern: "/health", Effect: routepolicy.Permit},
		{Method: "GET", Pattern: "/api/v1/incidents/", Effect: routepolicy.Permit},
	})
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@etf.unibl.org",
		"role":  "MODERATOR",
		"exp":   float64(time.Now().Add(time.Minute).Unix()),
	}
}

func TestRouteGuardPermitsPublicRouteWithoutToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guard := NewRouteGuard(testTable(), stubParser{respErr: errors.New("should not be called")})
	handler := guard.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouteGuardBlocksProtectedRouteWithoutToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guard := NewRouteGuard(testTable(), stubParser{})
	handler := guard.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = handler(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var errResp res.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &errResp)
	if errResp.Error.Code != "unauthorized" {
		t.Fatalf("unexpected error code: %s", errResp.Error.Code)
	}
}

func TestRouteGuardBlocksInvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/incidents/1", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bad")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guard := NewRouteGuard(testTable(), stubParser{respErr: errors.New("parse error")})
	handler := guard.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = handler(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouteGuardAcceptsValidTokenAndSetsIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/incidents/1", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guard := NewRouteGuard(testTable(), stubParser{
		respToken:  &jwt.Token{Valid: true},
		respClaims: validClaims(),
	})
	handler := guard.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get("user_id") != "user-1" || c.Get("role") != "MODERATOR" {
		t.Fatalf("identity not propagated: user_id=%v role=%v", c.Get("user_id"), c.Get("role"))
	}
}

func TestRouteGuardMethodAwareClassification(t *testing.T) {
	guard := NewRouteGuard(testTable(), stubParser{})
	e := echo.New()

	// GET on the incident namespace is public, POST is not
	req := httptest.NewRequest(http.MethodGet, "/api/v1/incidents/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := guard.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = handler(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/incidents/42", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	_ = handler(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("POST expected 401, got %d", rec.Code)
	}
}
