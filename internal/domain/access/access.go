// Package access decides whether a route may be entered with a given session.
// Evaluation is pure: it reads a session snapshot and a path and returns a Decision.
package access

import (
	"path"
	"sort"
	"strings"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
)

// Outcome is the result kind of an access decision.
type Outcome string

const (
	Admit    Outcome = "admit"
	Redirect Outcome = "redirect"
)

// Reason explains a redirect. It is empty when the route is admitted.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonWrongRole       Reason = "wrong_role"
	ReasonUnknownRoute    Reason = "unknown_route"
)

// Decision is what the guard does for one navigation.
type Decision struct {
	Outcome Outcome
	Target  string
	Reason  Reason
}

// Admitted reports whether the route may be rendered.
func (d Decision) Admitted() bool { return d.Outcome == Admit }

// Policy is the access requirement of a route. A non-public policy with no
// AllowedRoles admits any authenticated session. A policy covers only its exact
// path unless Subtree is set.
type Policy struct {
	Public       bool
	AllowedRoles []domainauth.Role
	Subtree      bool
}

func (p Policy) allows(role domainauth.Role) bool {
	if len(p.AllowedRoles) == 0 {
		return true
	}
	for _, r := range p.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Table maps routes to policies. Paths are cleaned before matching. A Subtree
// policy also covers every path below its prefix, and the longest such prefix
// wins; matching stops at path segment boundaries.
type Table struct {
	routes map[string]Policy
	// prefixes is sorted longest first.
	prefixes []string
}

// NewTable builds a Table. Prefixes are normalized to a leading slash without a
// trailing one.
func NewTable(routes map[string]Policy) *Table {
	t := &Table{routes: make(map[string]Policy, len(routes))}
	for prefix, policy := range routes {
		p := normalize(prefix)
		t.routes[p] = policy
		t.prefixes = append(t.prefixes, p)
	}
	sort.Slice(t.prefixes, func(i, j int) bool {
		if len(t.prefixes[i]) != len(t.prefixes[j]) {
			return len(t.prefixes[i]) > len(t.prefixes[j])
		}
		return t.prefixes[i] < t.prefixes[j]
	})
	return t
}

// DefaultTable is the portal's route table. Dashboards are exact routes; their
// actions live in role-owned subtrees.
func DefaultTable() *Table {
	admin := []domainauth.Role{domainauth.RoleAdmin}
	doctor := []domainauth.Role{domainauth.RoleDoctor}
	patient := []domainauth.Role{domainauth.RolePatient}
	return NewTable(map[string]Policy{
		domainauth.LoginPath:    {Public: true},
		"/admin":                {AllowedRoles: admin},
		"/admin/users":          {AllowedRoles: admin, Subtree: true},
		"/admin/appointments":   {AllowedRoles: admin},
		"/doctor":               {AllowedRoles: doctor},
		"/doctor/appointments":  {AllowedRoles: doctor, Subtree: true},
		"/patient":              {AllowedRoles: patient},
		"/patient/appointments": {AllowedRoles: patient, Subtree: true},
	})
}

// Lookup returns the policy and matched prefix for path.
func (t *Table) Lookup(route string) (Policy, string, bool) {
	p := normalize(route)
	if policy, ok := t.routes[p]; ok {
		return policy, p, true
	}
	for _, prefix := range t.prefixes {
		policy := t.routes[prefix]
		if policy.Subtree && strings.HasPrefix(p, prefix+"/") {
			return policy, prefix, true
		}
	}
	return Policy{}, "", false
}

// Prefixes returns the known route prefixes, longest first.
func (t *Table) Prefixes() []string {
	out := make([]string, len(t.prefixes))
	copy(out, t.prefixes)
	return out
}

// Evaluate decides whether session may enter path.
func (t *Table) Evaluate(session domainauth.Session, route string) Decision {
	policy, _, ok := t.Lookup(route)
	switch {
	case !ok:
		return redirect(ReasonUnknownRoute)
	case policy.Public:
		return Decision{Outcome: Admit}
	case !session.IsAuthenticated():
		return redirect(ReasonUnauthenticated)
	case !session.Role.Valid() || !policy.allows(session.Role):
		return redirect(ReasonWrongRole)
	default:
		return Decision{Outcome: Admit}
	}
}

func redirect(reason Reason) Decision {
	return Decision{Outcome: Redirect, Target: domainauth.LoginPath, Reason: reason}
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	// Rooting first keeps ".." from climbing above "/".
	return path.Clean("/" + p)
}
