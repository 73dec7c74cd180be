package usecase

import "strings"

// IsAllowedDomain reports whether email belongs to requiredDomain or
// one of its sub-domains. Comparison is case-insensitive. A malformed
// email (no '@') is treated the same as a disallowed domain.
func IsAllowedDomain(email, requiredDomain string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	required := strings.ToLower(requiredDomain)
	if required == "" {
		return false
	}
	return domain == required || strings.HasSuffix(domain, "."+required)
}
