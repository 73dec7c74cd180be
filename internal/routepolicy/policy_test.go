package routepolicy

import (
	"os"
	"testing"
)

func TestClassifyFirstMatchWins(t *testing.T) {
	table := NewTable([]Rule{
		{Method: "POST", Pattern: "/x", Effect: RequireAuth},
		{Method: MethodAny, Pattern: "/x", Effect: Permit},
	})

	if got := table.Classify("POST", "/x"); got != RequireAuth {
		t.Fatalf("POST /x = %s, want require_auth", got)
	}
	if got := table.Classify("GET", "/x"); got != Permit {
		t.Fatalf("GET /x = %s, want permit", got)
	}
}

func TestClassifyFailClosedDefault(t *testing.T) {
	table := NewTable([]Rule{
		{Method: MethodAny, Pattern: "/api/v1/auth/", Effect: Permit},
	})

	for _, path := range []string{"/api/v1/incidents", "/", "/admin"} {
		if got := table.Classify("GET", path); got != RequireAuth {
			t.Fatalf("GET %s = %s, want require_auth", path, got)
		}
	}
}

func TestClassifyContainmentMatch(t *testing.T) {
	table := NewTable([]Rule{
		{Method: MethodAny, Pattern: "/actuator/health", Effect: Permit},
	})

	// the pattern may appear anywhere in the path, mirroring the
	// gateway's per-service health probes
	if got := table.Classify("GET", "/incident-service/actuator/health"); got != Permit {
		t.Fatalf("nested health path = %s, want permit", got)
	}
}

func TestClassifyMethodSpecificRule(t *testing.T) {
	table := NewTable([]Rule{
		{Method: "GET", Pattern: "/api/v1/moderation/", Effect: Permit},
	})

	if got := table.Classify("GET", "/api/v1/moderation/incidents"); got != Permit {
		t.Fatalf("GET = %s, want permit", got)
	}
	if got := table.Classify("DELETE", "/api/v1/moderation/incidents"); got != RequireAuth {
		t.Fatalf("DELETE = %s, want require_auth", got)
	}
}

func TestClassifyEmptyTableDeniesEverything(t *testing.T) {
	table := NewTable(nil)
	if got := table.Classify("GET", "/health"); got != RequireAuth {
		t.Fatalf("empty table = %s, want require_auth", got)
	}
}

func TestParseRejectsUnknownEffect(t *testing.T) {
	_, err := Parse([]byte("rules:\n  - {method: any, path: /x, effect: allow}\n"))
	if err == nil {
		t.Fatal("expected error for unknown effect")
	}
}

func TestParseRejectsEmptyPattern(t *testing.T) {
	_, err := Parse([]byte("rules:\n  - {method: any, path: \"\", effect: permit}\n"))
	if err == nil {
		t.Fatal("expected error for empty pattern")
	}
}

func TestDefaultGatewayTable(t *testing.T) {
	table, err := LoadGateway("")
	if err != nil {
		t.Fatalf("load default gateway rules: %v", err)
	}

	cases := []struct {
		method, path string
		want         Effect
	}{
		{"GET", "/api/v1/auth/login", Permit},
		{"GET", "/login/oauth2/code/google", Permit},
		{"GET", "/oauth2/authorization/google", Permit},
		{"GET", "/actuator/health", Permit},
		{"GET", "/api/v1/incidents", Permit},
		{"GET", "/api/v1/incidents/42", Permit},
		{"POST", "/api/v1/incidents/filter", Permit},
		{"POST", "/api/v1/incidents/filter/5", Permit},
		{"POST", "/api/v1/incidents", RequireAuth},
		{"GET", "/api/v1/moderation", Permit},
		{"GET", "/api/v1/moderation/pending", Permit},
		{"DELETE", "/api/v1/moderation/42", RequireAuth},
	}
	for _, c := range cases {
		if got := table.Classify(c.method, c.path); got != c.want {
			t.Errorf("%s %s = %s, want %s", c.method, c.path, got, c.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/rules.yaml"
	content := "rules:\n  - {method: GET, path: /public/, effect: permit}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	table, err := Load(path, defaultGatewayRules)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := table.Classify("GET", "/public/docs"); got != Permit {
		t.Fatalf("file rule not applied: %s", got)
	}
	// file replaces the defaults entirely
	if got := table.Classify("GET", "/api/v1/auth/login"); got != RequireAuth {
		t.Fatalf("defaults leaked through a rules file: %s", got)
	}
}
