package model

import (
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// ValidationLevel selects how strictly the effective model is checked.
type ValidationLevel int

const (
	// ValidationMinimal checks only what is needed to identify the model.
	ValidationMinimal ValidationLevel = iota
	// ValidationMaven30 matches the leniency of Maven 3.0.
	ValidationMaven30
	// ValidationStrict turns Maven 3.0 warnings into errors.
	ValidationStrict
)

func (l ValidationLevel) String() string {
	switch l {
	case ValidationMinimal:
		return "minimal"
	case ValidationMaven30:
		return "maven-3.0"
	default:
		return "strict"
	}
}

// validateRaw checks a model as written, before inheritance collapses
// duplicate declarations.
func validateRaw(m *pom.Model, level ValidationLevel, ps *problems) {
	if level == ValidationMinimal {
		return
	}
	report := ps.warnf
	if level >= ValidationStrict {
		report = ps.errorf
	}
	source := m.ID()

	seen := make(map[string]bool)
	for _, d := range m.ManagedDependencies() {
		key := d.ManagementKey()
		if seen[key] {
			report(source, "'dependencyManagement.dependencies.dependency.(groupId:artifactId:type:classifier)' must be unique: %s -> duplicate declaration of version %s", key, d.Version)
		}
		seen[key] = true
	}

	clear(seen)
	for _, d := range m.Dependencies {
		key := d.ManagementKey()
		if seen[key] {
			report(source, "'dependencies.dependency.(groupId:artifactId:type:classifier)' must be unique: %s -> duplicate declaration of version %s", key, d.Version)
		}
		seen[key] = true
	}

	clear(seen)
	for _, p := range m.ManagedPlugins() {
		if seen[p.Key()] {
			report(source, "'build.pluginManagement.plugins.plugin.(groupId:artifactId)' must be unique but found duplicate declaration of plugin %s", p.Key())
		}
		seen[p.Key()] = true
	}
}

// validateEffective checks the assembled and interpolated model.
func validateEffective(m *pom.Model, level ValidationLevel, ps *problems) {
	source := m.ID()
	if m.GroupID == "" {
		ps.errorf(source, "'groupId' is missing.")
	}
	if m.ArtifactID == "" {
		ps.errorf(source, "'artifactId' is missing.")
	}
	if m.Version == "" {
		ps.errorf(source, "'version' is missing.")
	}

	for _, d := range m.ManagedDependencies() {
		key := d.ManagementKey()
		if d.GroupID == "" {
			ps.errorf(source, "'dependencyManagement.dependencies.dependency.groupId' for %s is missing.", key)
		}
		if d.ArtifactID == "" {
			ps.errorf(source, "'dependencyManagement.dependencies.dependency.artifactId' for %s is missing.", key)
		}
		if level == ValidationMinimal {
			continue
		}
		switch {
		case d.Version == "":
			ps.errorf(source, "'dependencyManagement.dependencies.dependency.version' for %s is missing.", key)
		case hasExpression(d.Version):
			ps.errorf(source, "'dependencyManagement.dependencies.dependency.version' for %s contains an unresolved expression: %s", key, d.Version)
		}
	}

	for _, p := range m.ManagedPlugins() {
		if p.ArtifactID == "" {
			ps.errorf(source, "'build.pluginManagement.plugins.plugin.artifactId' is missing.")
		}
		if level != ValidationMinimal && hasExpression(p.Version) {
			ps.errorf(source, "'build.pluginManagement.plugins.plugin.version' for %s contains an unresolved expression: %s", p.Key(), p.Version)
		}
	}
}
