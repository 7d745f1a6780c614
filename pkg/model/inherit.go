package model

import (
	"slices"

	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// inherit returns child with the values of its (already assembled) parent
// applied. artifactId, name, packaging, modules and profiles are not
// inherited.
func inherit(parent, child *pom.Model) *pom.Model {
	m := child.Clone()

	if m.ModelVersion == "" {
		m.ModelVersion = parent.ModelVersion
	}
	if m.GroupID == "" {
		m.GroupID = firstNonEmpty(parent.GroupID, parentField(child, func(p *pom.Parent) string { return p.GroupID }))
	}
	if m.Version == "" {
		m.Version = firstNonEmpty(parent.Version, parentField(child, func(p *pom.Parent) string { return p.Version }))
	}
	if m.Description == "" {
		m.Description = parent.Description
	}
	if m.URL == "" && parent.URL != "" {
		m.URL = parent.URL + "/" + child.ArtifactID
	}
	if len(m.Licenses) == 0 {
		m.Licenses = slices.Clone(parent.Licenses)
	}

	m.Properties = mergeProperties(parent.Properties, child.Properties)
	m.Repositories = mergeRepositories(child.Repositories, parent.Repositories)
	m.PluginRepositories = mergeRepositories(child.PluginRepositories, parent.PluginRepositories)
	m.Dependencies = mergeDependencies(parent.Dependencies, child.Dependencies)
	if deps := mergeDependencies(parent.ManagedDependencies(), child.ManagedDependencies()); len(deps) > 0 {
		m.DependencyManagement = &pom.DependencyManagement{Dependencies: deps}
	}
	m.Build = mergeBuild(parent.Build, child.Build)
	return m
}

func parentField(m *pom.Model, get func(*pom.Parent) string) string {
	if m.Parent == nil {
		return ""
	}
	return get(m.Parent)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mergeProperties keeps the order of base and applies overrides in place;
// properties only present in overrides are appended.
func mergeProperties(base, overrides pom.Properties) pom.Properties {
	out := slices.Clone(base)
	for _, p := range overrides {
		out.Set(p.Name, p.Value)
	}
	return out
}

// mergeRepositories lists dominant first, then the recessive entries whose
// id is not declared by dominant.
func mergeRepositories(dominant, recessive []pom.Repository) []pom.Repository {
	out := slices.Clone(dominant)
	for _, r := range recessive {
		if !slices.ContainsFunc(out, func(o pom.Repository) bool { return o.ID == r.ID }) {
			out = append(out, r)
		}
	}
	return out
}

// mergeDependencies merges by management key. Entries of base keep their
// position; an override replaces the fields it sets, and override-only
// entries are appended in their own order.
func mergeDependencies(base, overrides []pom.Dependency) []pom.Dependency {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := pom.CloneDependencies(base)
	index := make(map[string]int, len(out)+len(overrides))
	for i, d := range out {
		index[d.ManagementKey()] = i
	}
	for _, d := range pom.CloneDependencies(overrides) {
		key := d.ManagementKey()
		if i, ok := index[key]; ok {
			out[i] = mergeDependency(out[i], d)
			continue
		}
		index[key] = len(out)
		out = append(out, d)
	}
	return out
}

func mergeDependency(base, override pom.Dependency) pom.Dependency {
	out := override
	out.Version = firstNonEmpty(override.Version, base.Version)
	out.Type = firstNonEmpty(override.Type, base.Type)
	out.Scope = firstNonEmpty(override.Scope, base.Scope)
	out.Optional = firstNonEmpty(override.Optional, base.Optional)
	if len(out.Exclusions) == 0 {
		out.Exclusions = slices.Clone(base.Exclusions)
	}
	return out
}

// mergePlugins merges by groupId:artifactId with the same ordering rules as
// mergeDependencies.
func mergePlugins(base, overrides []pom.Plugin) []pom.Plugin {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := pom.ClonePlugins(base)
	index := make(map[string]int, len(out)+len(overrides))
	for i, p := range out {
		index[p.Key()] = i
	}
	for _, p := range pom.ClonePlugins(overrides) {
		key := p.Key()
		if i, ok := index[key]; ok {
			out[i] = mergePlugin(out[i], p)
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out
}

func mergePlugin(base, override pom.Plugin) pom.Plugin {
	out := override
	out.GroupID = firstNonEmpty(override.GroupID, base.GroupID)
	out.Version = firstNonEmpty(override.Version, base.Version)
	out.Extensions = firstNonEmpty(override.Extensions, base.Extensions)
	out.Dependencies = mergeDependencies(base.Dependencies, override.Dependencies)
	return out
}

func mergeBuild(base, override *pom.Build) *pom.Build {
	if base == nil && override == nil {
		return nil
	}
	var (
		basePlugins, overridePlugins []pom.Plugin
		baseManaged, overrideManaged []pom.Plugin
	)
	if base != nil {
		basePlugins = base.Plugins
		if base.PluginManagement != nil {
			baseManaged = base.PluginManagement.Plugins
		}
	}
	if override != nil {
		overridePlugins = override.Plugins
		if override.PluginManagement != nil {
			overrideManaged = override.PluginManagement.Plugins
		}
	}

	out := &pom.Build{Plugins: mergePlugins(basePlugins, overridePlugins)}
	if managed := mergePlugins(baseManaged, overrideManaged); len(managed) > 0 {
		out.PluginManagement = &pom.PluginManagement{Plugins: managed}
	}
	return out
}
