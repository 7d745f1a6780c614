package repository

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Mirror redirects requests for the repositories matched by MirrorOf.
//
// MirrorOf follows Maven's syntax: "*" matches everything, "external:*"
// matches every non-local repository, a comma separates alternatives and a
// leading "!" excludes an id. Individual ids may also be glob patterns such as
// "corp-*".
type Mirror struct {
	ID       string `toml:"id"`
	URL      string `toml:"url"`
	Layout   string `toml:"layout"`
	MirrorOf string `toml:"mirror_of"`
}

// Endpoint returns the mirror as a repository endpoint.
func (m Mirror) Endpoint() Endpoint {
	layout := m.Layout
	if layout == "" {
		layout = LayoutDefault
	}
	return Endpoint{ID: m.ID, URL: m.URL, Layout: layout}
}

type mirrorRule struct {
	mirror   Mirror
	include  []glob.Glob
	exclude  []glob.Glob
	all      bool
	external bool
}

func (r *mirrorRule) matches(ep Endpoint) bool {
	for _, g := range r.exclude {
		if g.Match(ep.ID) {
			return false
		}
	}
	if r.all {
		return true
	}
	if r.external && !ep.IsLocal() {
		return true
	}
	for _, g := range r.include {
		if g.Match(ep.ID) {
			return true
		}
	}
	return false
}

// Selector applies mirrors to endpoints. The zero value and a nil Selector
// apply no mirrors.
type Selector struct {
	rules []mirrorRule
}

// NewSelector compiles the mirrorOf patterns of mirrors. The first matching
// mirror wins, so order mirrors from most to least specific.
func NewSelector(mirrors ...Mirror) (*Selector, error) {
	s := &Selector{}
	for _, m := range mirrors {
		if err := m.Endpoint().Validate(); err != nil {
			return nil, fmt.Errorf("mirror %s: %w", m.ID, err)
		}
		rule := mirrorRule{mirror: m}
		for _, pat := range strings.Split(m.MirrorOf, ",") {
			pat = strings.TrimSpace(pat)
			switch {
			case pat == "":
				continue
			case pat == "*":
				rule.all = true
			case pat == "external:*":
				rule.external = true
			case strings.HasPrefix(pat, "!"):
				g, err := glob.Compile(pat[1:])
				if err != nil {
					return nil, fmt.Errorf("mirror %s: failed to compile pattern %q: %w", m.ID, pat, err)
				}
				rule.exclude = append(rule.exclude, g)
			default:
				g, err := glob.Compile(pat)
				if err != nil {
					return nil, fmt.Errorf("mirror %s: failed to compile pattern %q: %w", m.ID, pat, err)
				}
				rule.include = append(rule.include, g)
			}
		}
		s.rules = append(s.rules, rule)
	}
	return s, nil
}

// Lookup returns the mirror for ep, if any.
func (s *Selector) Lookup(ep Endpoint) (Mirror, bool) {
	if s == nil {
		return Mirror{}, false
	}
	for i := range s.rules {
		if s.rules[i].matches(ep) {
			return s.rules[i].mirror, true
		}
	}
	return Mirror{}, false
}

// Apply rewrites each endpoint to its mirror. Endpoints served by the same
// mirror collapse into one entry at the position of the first of them.
func (s *Selector) Apply(eps []Endpoint) []Endpoint {
	if s == nil || len(s.rules) == 0 {
		return eps
	}
	out := make([]Endpoint, 0, len(eps))
	seen := make(map[string]bool, len(eps))
	for _, ep := range eps {
		if m, ok := s.Lookup(ep); ok {
			mep := m.Endpoint()
			mep.NoReleases, mep.NoSnapshots = ep.NoReleases, ep.NoSnapshots
			ep = mep
		}
		if seen[ep.ID] {
			continue
		}
		seen[ep.ID] = true
		out = append(out, ep)
	}
	return out
}
