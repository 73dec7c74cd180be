package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dejanjanjic/report-incident-backend/internal/domain"
	pkglog "github.com/dejanjanjic/report-incident-backend/pkg/log"
)

type loginState int

const (
	loginSucceeded loginState = iota
	loginFailed
)

// LoginOutcome is the terminal state of one callback evaluation. It is
// never persisted; it exists only to drive the browser redirect.
type LoginOutcome struct {
	state   loginState
	token   string
	message string
}

func Success(token string) LoginOutcome {
	return LoginOutcome{state: loginSucceeded, token: token}
}

func Failure(message string) LoginOutcome {
	return LoginOutcome{state: loginFailed, message: message}
}

func (o LoginOutcome) Succeeded() bool { return o.state == loginSucceeded }
func (o LoginOutcome) Token() string   { return o.token }
func (o LoginOutcome) Message() string { return o.message }

// RedirectURL builds the single browser redirect this outcome demands.
func (o LoginOutcome) RedirectURL(frontendBaseURL string) string {
	if o.state == loginSucceeded {
		return frontendBaseURL + "/login-success?token=" + o.token
	}
	return frontendBaseURL + "/login?error=" + url.QueryEscape(o.message)
}

// LoginFlow is the callback orchestrator: domain gate, then upsert,
// then token issue. Every invocation reaches exactly one terminal
// state; no failure escapes as a raw fault.
type LoginFlow struct {
	users          UserService
	signer         JWTSigner
	requiredDomain string
	logger         pkglog.Logger
}

func NewLoginFlow(users UserService, signer JWTSigner, requiredDomain string, logger pkglog.Logger) *LoginFlow {
	return &LoginFlow{
		users:          users,
		signer:         signer,
		requiredDomain: requiredDomain,
		logger:         logger,
	}
}

// Complete drives a verified provider profile to a terminal state.
func (f *LoginFlow) Complete(ctx context.Context, profile *domain.Profile) LoginOutcome {
	if profile == nil || profile.Email == "" {
		return Failure("Email not provided by identity provider.")
	}

	if !IsAllowedDomain(profile.Email, f.requiredDomain) {
		f.logger.Warn().Str("email", profile.Email).Msg("login denied by domain policy")
		return Failure(fmt.Sprintf("Access denied. Only users with a '%s' domain are allowed.", f.requiredDomain))
	}

	user, err := f.users.Upsert(ctx, profile)
	if err != nil {
		if errors.Is(err, ErrEmailMissing) {
			return Failure("Email not provided by identity provider.")
		}
		return f.HandshakeFailed(err)
	}

	token, err := f.signer.Issue(user)
	if err != nil {
		return f.HandshakeFailed(err)
	}

	f.logger.Info().Str("user_id", user.ID).Msg("login completed")
	return Success(token)
}

// HandshakeFailed maps any lower-level fault during the provider
// exchange onto the failure redirect path.
func (f *LoginFlow) HandshakeFailed(err error) LoginOutcome {
	f.logger.Error().Err(err).Msg("login handshake failed")
	return Failure("Login failed. Please try again. Error: " + err.Error())
}
