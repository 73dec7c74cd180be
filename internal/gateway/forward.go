package gateway

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/echo/v4"

	pkglog "github.com/dejanjanjic/report-incident-backend/pkg/log"
)

// hop-by-hop headers must not be forwarded
var hopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// Forwarder relays a classified request to a backend service. GET and
// HEAD forwards are retried with exponential backoff on connection
// errors; anything carrying a body is attempted once.
type Forwarder struct {
	client *http.Client
	logger pkglog.Logger
}

func NewForwarder(timeout time.Duration, logger pkglog.Logger) *Forwarder {
	return &Forwarder{client: &http.Client{Timeout: timeout}, logger: logger}
}

// Handler returns an echo handler forwarding every request to target.
func (f *Forwarder) Handler(target string) echo.HandlerFunc {
	base := strings.TrimRight(target, "/")
	return func(c echo.Context) error {
		return f.forward(c, base)
	}
}

// HandlerStripPrefix forwards to target after removing prefix from the
// request path, so /<service>/actuator/health probes reach the
// backend's local health endpoint.
func (f *Forwarder) HandlerStripPrefix(target, prefix string) echo.HandlerFunc {
	base := strings.TrimRight(target, "/")
	return func(c echo.Context) error {
		c.Request().URL.Path = strings.TrimPrefix(c.Request().URL.Path, prefix)
		return f.forward(c, base)
	}
}

func (f *Forwarder) forward(c echo.Context, base string) error {
	req := c.Request()
	ctx := req.Context()

	outURL := base + req.URL.Path
	if req.URL.RawQuery != "" {
		outURL += "?" + req.URL.RawQuery
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
		}
		body = data
	}

	var resp *http.Response
	attempt := func() error {
		out, err := http.NewRequestWithContext(ctx, req.Method, outURL, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		copyHeaders(out.Header, req.Header)
		r, err := f.client.Do(out)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	var err error
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 100 * time.Millisecond
		bo.MaxElapsedTime = 2 * time.Second
		err = backoff.Retry(attempt, backoff.WithContext(bo, ctx))
	} else {
		err = attempt()
	}
	if err != nil {
		f.logger.Error().Err(err).Str("target", outURL).Msg("backend unreachable")
		return echo.NewHTTPError(http.StatusBadGateway, "backend unreachable")
	}
	defer resp.Body.Close()

	respHeader := c.Response().Header()
	copyHeaders(respHeader, resp.Header)
	c.Response().WriteHeader(resp.StatusCode)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}

func copyHeaders(dst, src http.Header) {
	for k, vv := range src {
		if _, hop := hopHeaders[http.CanonicalHeaderKey(k)]; hop {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}
