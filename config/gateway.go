package config

import (
	"log"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// GatewayConfig configures the edge gateway. Backend URLs point at the
// internal services the gateway forwards to; the aggregate route rule
// table decides which requests must carry a token before forwarding.
type GatewayConfig struct {
	AppName  string `env:"GW_APP_NAME" envDefault:"api-gateway"`
	AppEnv   string `env:"GW_APP_ENV" envDefault:"local"`
	HTTPHost string `env:"GW_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort string `env:"GW_HTTP_PORT" envDefault:"8080"`

	AuthServiceURL       string `env:"GW_AUTH_SERVICE_URL" envDefault:"http://localhost:8084"`
	IncidentServiceURL   string `env:"GW_INCIDENT_SERVICE_URL" envDefault:"http://localhost:8081"`
	ModerationServiceURL string `env:"GW_MODERATION_SERVICE_URL" envDefault:"http://localhost:8082"`

	JWT JWT

	RouteRulesPath string `env:"GW_ROUTE_RULES_PATH"`
}

func LoadGateway() (*GatewayConfig, error) {
	_ = godotenv.Load()
	cfg := &GatewayConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoadGateway() *GatewayConfig {
	cfg, err := LoadGateway()
	if err != nil {
		log.Fatalf("failed to load gateway config: %v", err)
	}
	return cfg
}
