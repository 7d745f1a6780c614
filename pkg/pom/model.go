// Package pom reads and writes pom.xml documents.
package pom

import "encoding/xml"

// DefaultPluginGroupID is the groupId assumed for plugins that omit it.
const DefaultPluginGroupID = "org.apache.maven.plugins"

// Model is the in-memory form of a pom.xml file.
//
// Only the parts of the POM that take part in inheritance and version
// management are modelled; unknown elements are ignored when parsing.
type Model struct {
	XMLName      xml.Name `xml:"project"`
	ModelVersion string   `xml:"modelVersion,omitempty"`

	Parent *Parent `xml:"parent,omitempty"`

	GroupID     string `xml:"groupId,omitempty"`
	ArtifactID  string `xml:"artifactId,omitempty"`
	Version     string `xml:"version,omitempty"`
	Packaging   string `xml:"packaging,omitempty"`
	Name        string `xml:"name,omitempty"`
	Description string `xml:"description,omitempty"`
	URL         string `xml:"url,omitempty"`

	Licenses []License `xml:"licenses>license,omitempty"`
	Modules  []string  `xml:"modules>module,omitempty"`

	Properties Properties `xml:"properties,omitempty"`

	DependencyManagement *DependencyManagement `xml:"dependencyManagement,omitempty"`
	Dependencies         []Dependency          `xml:"dependencies>dependency,omitempty"`

	Repositories       []Repository `xml:"repositories>repository,omitempty"`
	PluginRepositories []Repository `xml:"pluginRepositories>pluginRepository,omitempty"`

	Build    *Build    `xml:"build,omitempty"`
	Profiles []Profile `xml:"profiles>profile,omitempty"`

	// Path of the file the model was read from; empty for synthetic models.
	Path string `xml:"-"`
}

// Parent references the parent POM.
type Parent struct {
	GroupID      string  `xml:"groupId"`
	ArtifactID   string  `xml:"artifactId"`
	Version      string  `xml:"version"`
	RelativePath *string `xml:"relativePath"`
}

// ID returns "groupId:artifactId:version" of the parent.
func (p *Parent) ID() string {
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}

// License is a project license.
type License struct {
	Name string `xml:"name,omitempty"`
	URL  string `xml:"url,omitempty"`
}

// DependencyManagement holds managed dependency versions.
type DependencyManagement struct {
	Dependencies []Dependency `xml:"dependencies>dependency"`
}

// Dependency is a (managed) dependency declaration.
type Dependency struct {
	GroupID    string      `xml:"groupId"`
	ArtifactID string      `xml:"artifactId"`
	Version    string      `xml:"version,omitempty"`
	Type       string      `xml:"type,omitempty"`
	Classifier string      `xml:"classifier,omitempty"`
	Scope      string      `xml:"scope,omitempty"`
	Optional   string      `xml:"optional,omitempty"`
	Exclusions []Exclusion `xml:"exclusions>exclusion,omitempty"`
}

// ManagementKey returns "groupId:artifactId:type[:classifier]", the identity
// Maven uses to merge dependency declarations.
func (d Dependency) ManagementKey() string {
	typ := d.Type
	if typ == "" {
		typ = "jar"
	}
	key := d.GroupID + ":" + d.ArtifactID + ":" + typ
	if d.Classifier != "" {
		key += ":" + d.Classifier
	}
	return key
}

// IsImport reports whether d imports a bill of materials.
func (d Dependency) IsImport() bool {
	return d.Scope == "import" && d.Type == "pom"
}

// Exclusion removes a transitive dependency.
type Exclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// Repository is a repository declaration inside a POM.
type Repository struct {
	ID        string            `xml:"id"`
	Name      string            `xml:"name,omitempty"`
	URL       string            `xml:"url"`
	Layout    string            `xml:"layout,omitempty"`
	Releases  *RepositoryPolicy `xml:"releases,omitempty"`
	Snapshots *RepositoryPolicy `xml:"snapshots,omitempty"`
}

// RepositoryPolicy enables or disables releases or snapshots for a repository.
type RepositoryPolicy struct {
	Enabled string `xml:"enabled,omitempty"`
}

// IsEnabled reports whether the policy allows downloads. A missing policy or
// enabled flag means enabled.
func (p *RepositoryPolicy) IsEnabled() bool {
	return p == nil || p.Enabled == "" || p.Enabled == "true"
}

// Build holds build plugin declarations.
type Build struct {
	Plugins          []Plugin          `xml:"plugins>plugin,omitempty"`
	PluginManagement *PluginManagement `xml:"pluginManagement,omitempty"`
}

// PluginManagement holds managed plugin versions.
type PluginManagement struct {
	Plugins []Plugin `xml:"plugins>plugin"`
}

// Plugin is a build plugin declaration.
type Plugin struct {
	GroupID      string       `xml:"groupId,omitempty"`
	ArtifactID   string       `xml:"artifactId"`
	Version      string       `xml:"version,omitempty"`
	Extensions   string       `xml:"extensions,omitempty"`
	Dependencies []Dependency `xml:"dependencies>dependency,omitempty"`
}

// Key returns "groupId:artifactId", defaulting groupId to
// [DefaultPluginGroupID].
func (p Plugin) Key() string {
	g := p.GroupID
	if g == "" {
		g = DefaultPluginGroupID
	}
	return g + ":" + p.ArtifactID
}

// Profile is a conditional model fragment.
type Profile struct {
	ID                   string                `xml:"id"`
	Activation           *Activation           `xml:"activation,omitempty"`
	Properties           Properties            `xml:"properties,omitempty"`
	DependencyManagement *DependencyManagement `xml:"dependencyManagement,omitempty"`
	Dependencies         []Dependency          `xml:"dependencies>dependency,omitempty"`
	Repositories         []Repository          `xml:"repositories>repository,omitempty"`
	PluginRepositories   []Repository          `xml:"pluginRepositories>pluginRepository,omitempty"`
	Build                *Build                `xml:"build,omitempty"`
}

// Activation describes when a profile is active.
type Activation struct {
	ActiveByDefault string              `xml:"activeByDefault,omitempty"`
	JDK             string              `xml:"jdk,omitempty"`
	OS              *ActivationOS       `xml:"os,omitempty"`
	Property        *ActivationProperty `xml:"property,omitempty"`
	File            *ActivationFile     `xml:"file,omitempty"`
}

// ActivationOS activates a profile on a matching operating system.
type ActivationOS struct {
	Name    string `xml:"name,omitempty"`
	Family  string `xml:"family,omitempty"`
	Arch    string `xml:"arch,omitempty"`
	Version string `xml:"version,omitempty"`
}

// ActivationFile activates a profile when a file exists or is missing.
type ActivationFile struct {
	Exists  string `xml:"exists,omitempty"`
	Missing string `xml:"missing,omitempty"`
}

// ActivationProperty activates a profile based on a property.
type ActivationProperty struct {
	Name  string `xml:"name"`
	Value string `xml:"value,omitempty"`
}

// ID returns "groupId:artifactId:version" of the model, falling back to the
// parent's groupId and version when the model inherits them.
func (m *Model) ID() string {
	g, v := m.GroupID, m.Version
	if m.Parent != nil {
		if g == "" {
			g = m.Parent.GroupID
		}
		if v == "" {
			v = m.Parent.Version
		}
	}
	return g + ":" + m.ArtifactID + ":" + v
}

// ManagedDependencies returns the dependencyManagement entries or nil.
func (m *Model) ManagedDependencies() []Dependency {
	if m.DependencyManagement == nil {
		return nil
	}
	return m.DependencyManagement.Dependencies
}

// ManagedPlugins returns the build.pluginManagement entries or nil.
func (m *Model) ManagedPlugins() []Plugin {
	if m.Build == nil || m.Build.PluginManagement == nil {
		return nil
	}
	return m.Build.PluginManagement.Plugins
}
