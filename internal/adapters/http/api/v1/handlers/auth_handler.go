package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dejanjanjic/report-incident-backend/internal/adapters/oauth"
	"github.com/dejanjanjic/report-incident-backend/internal/usecase"
)

const (
	// AuthorizePath starts the handshake with the identity provider.
	AuthorizePath = "/oauth2/authorization/google"
	// CallbackPath is where the provider redirects back to.
	CallbackPath = "/login/oauth2/code/google"
)

// AuthHandler owns the login entry point and the provider callback.
// Whatever happens during the callback, the browser always receives
// exactly one redirect to the frontend.
type AuthHandler struct {
	provider    oauth.Provider
	flow        *usecase.LoginFlow
	frontendURL string
}

func NewAuthHandler(provider oauth.Provider, flow *usecase.LoginFlow, frontendURL string) *AuthHandler {
	return &AuthHandler{provider: provider, flow: flow, frontendURL: frontendURL}
}

// Login redirects the browser into the provider authorization flow.
func (h *AuthHandler) Login(c echo.Context) error {
	return c.Redirect(http.StatusFound, AuthorizePath)
}

// Authorize issues the state cookie and hands the browser off to the
// identity provider.
func (h *AuthHandler) Authorize(c echo.Context) error {
	state, err := issueState(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not generate login state")
	}
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback drives the login orchestration to a terminal state and
// performs the resulting redirect.
func (h *AuthHandler) Callback(c echo.Context) error {
	outcome := h.evaluate(c)
	return c.Redirect(http.StatusFound, outcome.RedirectURL(h.frontendURL))
}

func (h *AuthHandler) evaluate(c echo.Context) usecase.LoginOutcome {
	if errParam := c.QueryParam("error"); errParam != "" {
		msg := errParam
		if desc := c.QueryParam("error_description"); desc != "" {
			msg = fmt.Sprintf("%s: %s", errParam, desc)
		}
		return h.flow.HandshakeFailed(errors.New(msg))
	}

	if !validateState(c) {
		return h.flow.HandshakeFailed(errors.New("invalid state parameter"))
	}

	code := c.QueryParam("code")
	if code == "" {
		return h.flow.HandshakeFailed(errors.New("authorization code missing"))
	}

	profile, err := h.provider.Exchange(c.Request().Context(), code)
	if err != nil {
		return h.flow.HandshakeFailed(err)
	}

	return h.flow.Complete(c.Request().Context(), profile)
}
