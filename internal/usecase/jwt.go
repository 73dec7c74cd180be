package usecase

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dejanjanjic/report-incident-backend/config"
	"github.com/dejanjanjic/report-incident-backend/internal/domain"
)

// JWTSigner issues and parses the bearer tokens consumed by downstream
// services. Tokens embed the user's id, email, role and display name.
type JWTSigner interface {
	Issue(user *domain.User) (string, error)
	Parse(token string) (*jwt.Token, jwt.MapClaims, error)
}

type jwtSigner struct {
	cfg     config.JWT
	hmacKey []byte
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

func NewJWTSigner(cfg config.JWT) (JWTSigner, error) {
	s := &jwtSigner{cfg: cfg}
	if cfg.Secret != "" {
		s.hmacKey = []byte(cfg.Secret)
		return s, nil
	}
	if cfg.PrivateKey != "" || cfg.PublicKey != "" {
		if cfg.PublicKey == "" {
			return nil, errors.New("jwt public key required")
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKey))
		if err != nil {
			return nil, err
		}
		s.public = pub
		if cfg.PrivateKey != "" {
			priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKey))
			if err != nil {
				return nil, err
			}
			s.private = priv
		}
		return s, nil
	}
	return nil, errors.New("jwt secret or key pair required")
}

func (s *jwtSigner) Issue(user *domain.User) (string, error) {
	token := jwt.New(jwt.GetSigningMethod(s.method()))
	now := time.Now().UTC()
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = user.ID
	claims["email"] = user.Username
	claims["role"] = string(user.Role)
	claims["name"] = user.FullName
	claims["iss"] = s.cfg.Issuer
	claims["aud"] = s.cfg.Audience
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.cfg.AccessTTL).Unix()
	return s.sign(token)
}

func (s *jwtSigner) Parse(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithLeeway(30*time.Second),
	)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if s.hmacKey != nil {
			return s.hmacKey, nil
		}
		return s.public, nil
	})
	return token, claims, err
}

func (s *jwtSigner) sign(token *jwt.Token) (string, error) {
	if s.hmacKey != nil {
		return token.SignedString(s.hmacKey)
	}
	if s.private == nil {
		return "", errors.New("private key not configured")
	}
	return token.SignedString(s.private)
}

func (s *jwtSigner) method() string {
	if s.hmacKey != nil {
		return jwt.SigningMethodHS256.Alg()
	}
	return jwt.SigningMethodRS256.Alg()
}
