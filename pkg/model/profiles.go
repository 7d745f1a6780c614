package model

import (
	"strings"

	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// properties answers property lookups for profile activation and
// interpolation. User properties take precedence over system properties.
type properties struct {
	user   map[string]string
	system map[string]string
}

func (p properties) get(name string) (string, bool) {
	if v, ok := p.user[name]; ok {
		return v, true
	}
	v, ok := p.system[name]
	return v, ok
}

// activate returns a copy of m with its active profiles injected, and the ids
// of those profiles. Profiles marked activeByDefault apply only when no other
// profile of the same model is active. jdk, os and file conditions are not
// evaluated; each profile using them gets a warning.
func activate(m *pom.Model, props properties, ps *problems) (*pom.Model, []string) {
	var active, defaults []pom.Profile
	for _, p := range m.Profiles {
		if p.Activation == nil {
			continue
		}
		if kinds := unsupportedActivation(p.Activation); len(kinds) > 0 {
			ps.warnf(m.ID(), "profile %q: %s activation is not evaluated", p.ID, strings.Join(kinds, ", "))
		}
		if p.Activation.Property != nil && propertyActive(p.Activation.Property, props) {
			active = append(active, p)
		} else if strings.TrimSpace(p.Activation.ActiveByDefault) == "true" {
			defaults = append(defaults, p)
		}
	}
	if len(active) == 0 {
		active = defaults
	}

	out := m.Clone()
	ids := make([]string, 0, len(active))
	for _, p := range active {
		injectProfile(out, p)
		ids = append(ids, p.ID)
	}
	return out, ids
}

func unsupportedActivation(a *pom.Activation) []string {
	var kinds []string
	if strings.TrimSpace(a.JDK) != "" {
		kinds = append(kinds, "jdk")
	}
	if a.OS != nil {
		kinds = append(kinds, "os")
	}
	if a.File != nil {
		kinds = append(kinds, "file")
	}
	return kinds
}

// propertyActive evaluates a property activation:
//
//	name          active when name is set to a non-empty value
//	!name         active when name is not set
//	name + value  active when name equals value
//	name + !value active when name does not equal value
func propertyActive(ap *pom.ActivationProperty, props properties) bool {
	name := strings.TrimSpace(ap.Name)
	if name == "" {
		return false
	}
	if neg, ok := strings.CutPrefix(name, "!"); ok {
		_, defined := props.get(neg)
		return !defined
	}

	actual, defined := props.get(name)
	want := strings.TrimSpace(ap.Value)
	if want == "" {
		return defined && actual != ""
	}
	if neg, ok := strings.CutPrefix(want, "!"); ok {
		return actual != neg
	}
	return defined && actual == want
}

// injectProfile merges profile content into m with the profile dominant.
func injectProfile(m *pom.Model, p pom.Profile) {
	m.Properties = mergeProperties(m.Properties, p.Properties)
	m.Dependencies = mergeDependencies(m.Dependencies, p.Dependencies)
	var profileManaged []pom.Dependency
	if p.DependencyManagement != nil {
		profileManaged = p.DependencyManagement.Dependencies
	}
	if deps := mergeDependencies(m.ManagedDependencies(), profileManaged); len(deps) > 0 {
		m.DependencyManagement = &pom.DependencyManagement{Dependencies: deps}
	}
	m.Repositories = mergeRepositories(p.Repositories, m.Repositories)
	m.PluginRepositories = mergeRepositories(p.PluginRepositories, m.PluginRepositories)
	m.Build = mergeBuild(m.Build, p.Build)
}
