package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

// randRead is swapped out by tests simulating entropy failure.
var randRead = rand.Read

// issueState generates the anti-CSRF state value and stores it in a
// short-lived cookie for the callback to check against. The cookie is
// marked Secure only when the request arrived over https, so plain-http
// deployments behind no TLS terminator still complete the handshake.
func issueState(c echo.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})
	return state, nil
}

func validateState(c echo.Context) bool {
	stateQuery := c.QueryParam("state")
	if stateQuery == "" {
		return false
	}
	cookie, err := c.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == stateQuery
}
