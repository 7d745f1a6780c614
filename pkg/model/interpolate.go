package model

import (
	"regexp"
	"strings"

	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

var expressionPattern = regexp.MustCompile(`\$\{([^${}]+)\}`)

// hasExpression reports whether s still contains a ${...} expression.
func hasExpression(s string) bool {
	return expressionPattern.MatchString(s)
}

// interpolator expands ${...} expressions against a snapshot of the
// effective model.
//
// Lookup order: project.* / pom.* model values (and the bare legacy
// groupId, artifactId, version), user properties, model properties, system
// properties. Values are expanded recursively.
type interpolator struct {
	model   *pom.Model
	basedir string
	props   properties
	modelP  map[string]string

	source     string
	ps         *problems
	cache      map[string]string
	reported   map[string]bool
	unresolved []string
}

func newInterpolator(m *pom.Model, basedir string, props properties, source string, ps *problems) *interpolator {
	snapshot := m.Clone()
	return &interpolator{
		model:    snapshot,
		basedir:  basedir,
		props:    props,
		modelP:   snapshot.Properties.Map(),
		source:   source,
		ps:       ps,
		cache:    make(map[string]string),
		reported: make(map[string]bool),
	}
}

func (in *interpolator) lookup(name string) (string, bool) {
	if v, ok := in.modelValue(name); ok {
		return v, true
	}
	if v, ok := in.props.user[name]; ok {
		return v, true
	}
	if v, ok := in.modelP[name]; ok {
		return v, true
	}
	v, ok := in.props.system[name]
	return v, ok
}

func (in *interpolator) modelValue(name string) (string, bool) {
	field, ok := strings.CutPrefix(name, "project.")
	if !ok {
		field, ok = strings.CutPrefix(name, "pom.")
	}
	if !ok {
		switch name {
		case "groupId", "artifactId", "version", "basedir":
			field = name
		default:
			return "", false
		}
	}

	m := in.model
	switch field {
	case "groupId":
		return m.GroupID, true
	case "artifactId":
		return m.ArtifactID, true
	case "version":
		return m.Version, true
	case "packaging":
		return m.Packaging, true
	case "name":
		return m.Name, true
	case "description":
		return m.Description, true
	case "url":
		return m.URL, true
	case "modelVersion":
		return m.ModelVersion, true
	case "basedir":
		return in.basedir, in.basedir != ""
	case "parent.groupId", "parent.artifactId", "parent.version":
		if m.Parent == nil {
			return "", false
		}
		switch field {
		case "parent.groupId":
			return m.Parent.GroupID, true
		case "parent.artifactId":
			return m.Parent.ArtifactID, true
		default:
			return m.Parent.Version, true
		}
	}
	return "", false
}

// expand replaces every resolvable expression in s. Unresolvable expressions
// are kept verbatim.
func (in *interpolator) expand(s string) string {
	return in.expandWith(s, nil)
}

func (in *interpolator) expandWith(s string, stack []string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return expressionPattern.ReplaceAllStringFunc(s, func(expr string) string {
		name := expr[2 : len(expr)-1]
		for i, seen := range stack {
			if seen == name {
				in.reportCycle(append(stack[i:len(stack):len(stack)], name))
				return expr
			}
		}
		if v, ok := in.cache[name]; ok {
			return v
		}
		raw, ok := in.lookup(name)
		if !ok {
			in.reportUnresolved(expr)
			return expr
		}
		v := in.expandWith(raw, append(stack[:len(stack):len(stack)], name))
		in.cache[name] = v
		return v
	})
}

func (in *interpolator) reportCycle(path []string) {
	key := "cycle:" + path[0]
	if in.reported[key] {
		return
	}
	in.reported[key] = true
	in.ps.errorf(in.source, "expression cycle detected: %s", strings.Join(path, " -> "))
}

func (in *interpolator) reportUnresolved(expr string) {
	if in.reported[expr] {
		return
	}
	in.reported[expr] = true
	in.unresolved = append(in.unresolved, expr)
	in.ps.warnf(in.source, "unresolved expression %s", expr)
}

func (in *interpolator) str(s *string) {
	*s = in.expand(*s)
}

// interpolate expands the string fields of m in place.
func (in *interpolator) interpolate(m *pom.Model) {
	in.str(&m.GroupID)
	in.str(&m.ArtifactID)
	in.str(&m.Version)
	in.str(&m.Packaging)
	in.str(&m.Name)
	in.str(&m.Description)
	in.str(&m.URL)
	if m.Parent != nil {
		in.str(&m.Parent.GroupID)
		in.str(&m.Parent.ArtifactID)
		in.str(&m.Parent.Version)
	}
	for i := range m.Properties {
		in.str(&m.Properties[i].Value)
	}
	for i := range m.Licenses {
		in.str(&m.Licenses[i].Name)
		in.str(&m.Licenses[i].URL)
	}
	in.dependencies(m.Dependencies)
	in.dependencies(m.ManagedDependencies())
	in.repositories(m.Repositories)
	in.repositories(m.PluginRepositories)
	if m.Build != nil {
		in.plugins(m.Build.Plugins)
		in.plugins(m.ManagedPlugins())
	}
}

func (in *interpolator) dependencies(deps []pom.Dependency) {
	for i := range deps {
		d := &deps[i]
		in.str(&d.GroupID)
		in.str(&d.ArtifactID)
		in.str(&d.Version)
		in.str(&d.Type)
		in.str(&d.Classifier)
		in.str(&d.Scope)
		in.str(&d.Optional)
		for j := range d.Exclusions {
			in.str(&d.Exclusions[j].GroupID)
			in.str(&d.Exclusions[j].ArtifactID)
		}
	}
}

func (in *interpolator) repositories(repos []pom.Repository) {
	for i := range repos {
		in.str(&repos[i].ID)
		in.str(&repos[i].URL)
		in.str(&repos[i].Layout)
	}
}

func (in *interpolator) plugins(plugins []pom.Plugin) {
	for i := range plugins {
		p := &plugins[i]
		in.str(&p.GroupID)
		in.str(&p.ArtifactID)
		in.str(&p.Version)
		in.str(&p.Extensions)
		in.dependencies(p.Dependencies)
	}
}
