// Package routepolicy decides, per request, whether authentication must
// be enforced before a request is handled. The same engine runs at the
// edge gateway (aggregate table) and inside each backend service (its
// local table); only the rule tables differ.
package routepolicy

import "strings"

// Effect is the outcome of classifying a request.
type Effect string

const (
	Permit      Effect = "permit"
	RequireAuth Effect = "require_auth"
)

// MethodAny matches every HTTP method.
const MethodAny = "any"

// Rule is one entry in the route-authorization policy. Pattern is a
// literal or prefix token matched by containment against the request
// path, not a regex. Rules are evaluated in declared order and the
// first match wins, so operators must order most-specific-first.
type Rule struct {
	Method  string `yaml:"method"`
	Pattern string `yaml:"path"`
	Effect  Effect `yaml:"effect"`
}

func (r Rule) matches(method, path string) bool {
	if r.Pattern == "" {
		return false
	}
	if r.Method != "" && !strings.EqualFold(r.Method, MethodAny) && !strings.EqualFold(r.Method, method) {
		return false
	}
	return strings.Contains(path, r.Pattern)
}

// Table is an immutable, ordered rule set. It holds no mutable state
// and is safe for unsynchronized concurrent reads.
type Table struct {
	rules []Rule
}

// NewTable copies the given rules into an immutable table.
func NewTable(rules []Rule) *Table {
	t := &Table{rules: make([]Rule, len(rules))}
	copy(t.rules, rules)
	return t
}

// Classify returns the effect of the first matching rule, or
// RequireAuth when no rule matches (fail-closed).
func (t *Table) Classify(method, path string) Effect {
	for _, r := range t.rules {
		if r.matches(method, path) {
			return r.Effect
		}
	}
	return RequireAuth
}

// Rules returns a copy of the table's rules in evaluation order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}
