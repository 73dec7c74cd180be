package unit

import (
	"testing"

	"github.com/dejanjanjic/report-incident-backend/internal/usecase"
)

func TestIsAllowedDomain(t *testing.T) {
	cases := []struct {
		email, domain string
		want          bool
	}{
		{"a@corp.org", "corp.org", true},
		{"a@sub.corp.org", "corp.org", true},
		{"a@CORP.ORG", "corp.org", true},
		{"a@corp.org", "CORP.ORG", true},
		{"a@corpx.org", "corp.org", false},
		{"a@notcorp.org", "corp.org", false},
		{"not-an-email", "corp.org", false},
		{"", "corp.org", false},
		{"trailing@", "corp.org", false},
		{"a@corp.org", "", false},
		{"first@last@sub.corp.org", "corp.org", true},
	}
	for _, c := range cases {
		if got := usecase.IsAllowedDomain(c.email, c.domain); got != c.want {
			t.Errorf("IsAllowedDomain(%q, %q) = %v, want %v", c.email, c.domain, got, c.want)
		}
	}
}
