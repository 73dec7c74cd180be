package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// JWT groups the token settings shared by the auth service and the
// gateway. The gateway only parses tokens, so it may carry just the
// secret (HMAC) or the public half of an RSA key pair.
type JWT struct {
	Secret     string        `env:"AUTH_JWT_SECRET"`
	PrivateKey string        `env:"AUTH_JWT_PRIVATE_KEY"`
	PublicKey  string        `env:"AUTH_JWT_PUBLIC_KEY"`
	Audience   string        `env:"AUTH_JWT_AUDIENCE" envDefault:"frontend"`
	Issuer     string        `env:"AUTH_JWT_ISSUER" envDefault:"auth-service"`
	AccessTTL  time.Duration `env:"AUTH_JWT_ACCESS_TTL" envDefault:"12h"`
}

type Config struct {
	AppName      string `env:"AUTH_APP_NAME" envDefault:"auth-service"`
	AppEnv       string `env:"AUTH_APP_ENV" envDefault:"local"`
	HTTPHost     string `env:"AUTH_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort     string `env:"AUTH_HTTP_PORT" envDefault:"8084"`
	HTTPBasePath string `env:"AUTH_HTTP_BASE_PATH" envDefault:"/api/v1"`

	DBHost     string `env:"AUTH_DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"AUTH_DB_PORT" envDefault:"5432"`
	DBUser     string `env:"AUTH_DB_USER" envDefault:"app"`
	DBPassword string `env:"AUTH_DB_PASSWORD" envDefault:"app_password"`
	DBName     string `env:"AUTH_DB_NAME" envDefault:"authdb"`
	DBSSLMode  string `env:"AUTH_DB_SSLMODE" envDefault:"disable"`

	JWT JWT

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	FrontendURL   string `env:"FRONTEND_URL" envDefault:"http://localhost:4200"`
	AllowedDomain string `env:"ALLOWED_EMAIL_DOMAIN" envDefault:"etf.unibl.org"`
	DefaultRole   string `env:"AUTH_DEFAULT_ROLE" envDefault:"MODERATOR"`

	NATSURL           string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSVerifySubject string `env:"NATS_SUBJECT_VERIFY_JWT" envDefault:"auth.verifyJWT"`

	RouteRulesPath string `env:"AUTH_ROUTE_RULES_PATH"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
