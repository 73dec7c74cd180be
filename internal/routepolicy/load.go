package routepolicy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// defaultGatewayRules is the aggregate policy for the edge gateway
// across all backend route namespaces. Overridable via a rules file.
const defaultGatewayRules = `
rules:
  - {method: any, path: /api/v1/auth/, effect: permit}
  - {method: any, path: /login/, effect: permit}
  - {method: any, path: /oauth2/, effect: permit}
  - {method: any, path: /actuator/health, effect: permit}
  - {method: any, path: /health, effect: permit}
  - {method: POST, path: /api/v1/incidents/filter, effect: permit}
  - {method: GET, path: /api/v1/incidents, effect: permit}
  - {method: GET, path: /api/v1/moderation, effect: permit}
`

// defaultAuthServiceRules is the auth service's local policy, applied
// as a second gate behind the gateway.
const defaultAuthServiceRules = `
rules:
  - {method: any, path: /api/v1/auth/, effect: permit}
  - {method: any, path: /login/, effect: permit}
  - {method: any, path: /oauth2/, effect: permit}
  - {method: any, path: /health, effect: permit}
`

// Load reads a rule table from the YAML file at path. When path is
// empty the given built-in default is parsed instead.
func Load(path, fallback string) (*Table, error) {
	raw := []byte(fallback)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read route rules: %w", err)
		}
		raw = data
	}
	return Parse(raw)
}

// Parse decodes YAML rules into a table, validating every effect.
func Parse(raw []byte) (*Table, error) {
	var f ruleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse route rules: %w", err)
	}
	for i, r := range f.Rules {
		if r.Effect != Permit && r.Effect != RequireAuth {
			return nil, fmt.Errorf("route rule %d: unknown effect %q", i, r.Effect)
		}
		if r.Pattern == "" {
			return nil, fmt.Errorf("route rule %d: empty path pattern", i)
		}
	}
	return NewTable(f.Rules), nil
}

// LoadGateway returns the gateway table from path or the built-in
// aggregate defaults.
func LoadGateway(path string) (*Table, error) {
	return Load(path, defaultGatewayRules)
}

// LoadAuthService returns the auth service's local table from path or
// the built-in defaults.
func LoadAuthService(path string) (*Table, error) {
	return Load(path, defaultAuthServiceRules)
}
