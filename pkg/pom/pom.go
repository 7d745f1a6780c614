package pom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	// Namespace is the XML namespace of Maven 4.0.0 POMs.
	Namespace = "http://maven.apache.org/POM/4.0.0"

	schemaLocation = "http://maven.apache.org/POM/4.0.0 https://maven.apache.org/xsd/maven-4.0.0.xsd"
)

// Parse decodes a POM from r.
func Parse(r io.Reader) (*Model, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse pom: %w", err)
	}
	m.trim()
	return &m, nil
}

// charsetReader decodes the single-byte encodings older POMs declare.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "us-ascii", "ascii", "":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

// ParseFile reads and decodes the POM at path. The returned model records the
// path in [Model.Path].
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Write encodes m as an indented pom.xml document.
func Write(w io.Writer, m *Model) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	out := *m
	out.XMLName = xml.Name{Local: "project"}
	start := xml.StartElement{
		Name: xml.Name{Local: "project"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: Namespace},
			{Name: xml.Name{Local: "xmlns:xsi"}, Value: "http://www.w3.org/2001/XMLSchema-instance"},
			{Name: xml.Name{Local: "xsi:schemaLocation"}, Value: schemaLocation},
		},
	}
	if err := enc.EncodeElement(out, start); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// trim removes the surrounding whitespace that pretty-printed POMs carry in
// coordinate fields.
func (m *Model) trim() {
	m.GroupID = strings.TrimSpace(m.GroupID)
	m.ArtifactID = strings.TrimSpace(m.ArtifactID)
	m.Version = strings.TrimSpace(m.Version)
	m.Packaging = strings.TrimSpace(m.Packaging)
	if m.Parent != nil {
		m.Parent.GroupID = strings.TrimSpace(m.Parent.GroupID)
		m.Parent.ArtifactID = strings.TrimSpace(m.Parent.ArtifactID)
		m.Parent.Version = strings.TrimSpace(m.Parent.Version)
	}
	trimDeps(m.Dependencies)
	trimDeps(m.ManagedDependencies())
	if m.Build != nil {
		trimPlugins(m.Build.Plugins)
		trimPlugins(m.ManagedPlugins())
	}
	for i := range m.Profiles {
		p := &m.Profiles[i]
		p.ID = strings.TrimSpace(p.ID)
		trimDeps(p.Dependencies)
		if p.DependencyManagement != nil {
			trimDeps(p.DependencyManagement.Dependencies)
		}
		if p.Build != nil {
			trimPlugins(p.Build.Plugins)
			if p.Build.PluginManagement != nil {
				trimPlugins(p.Build.PluginManagement.Plugins)
			}
		}
	}
}

func trimDeps(deps []Dependency) {
	for i := range deps {
		d := &deps[i]
		d.GroupID = strings.TrimSpace(d.GroupID)
		d.ArtifactID = strings.TrimSpace(d.ArtifactID)
		d.Version = strings.TrimSpace(d.Version)
		d.Type = strings.TrimSpace(d.Type)
		d.Classifier = strings.TrimSpace(d.Classifier)
		d.Scope = strings.TrimSpace(d.Scope)
	}
}

func trimPlugins(plugins []Plugin) {
	for i := range plugins {
		p := &plugins[i]
		p.GroupID = strings.TrimSpace(p.GroupID)
		p.ArtifactID = strings.TrimSpace(p.ArtifactID)
		p.Version = strings.TrimSpace(p.Version)
	}
}

// Clone returns a deep copy of m. Merging and interpolation work on clones so
// the raw models of a lineage stay untouched.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := *m
	if m.Parent != nil {
		p := *m.Parent
		c.Parent = &p
	}
	c.Licenses = slices.Clone(m.Licenses)
	c.Modules = slices.Clone(m.Modules)
	c.Properties = slices.Clone(m.Properties)
	c.DependencyManagement = cloneDependencyManagement(m.DependencyManagement)
	c.Dependencies = CloneDependencies(m.Dependencies)
	c.Repositories = slices.Clone(m.Repositories)
	c.PluginRepositories = slices.Clone(m.PluginRepositories)
	c.Build = cloneBuild(m.Build)
	c.Profiles = make([]Profile, len(m.Profiles))
	for i, p := range m.Profiles {
		p.Properties = slices.Clone(p.Properties)
		p.DependencyManagement = cloneDependencyManagement(p.DependencyManagement)
		p.Dependencies = CloneDependencies(p.Dependencies)
		p.Repositories = slices.Clone(p.Repositories)
		p.PluginRepositories = slices.Clone(p.PluginRepositories)
		p.Build = cloneBuild(p.Build)
		c.Profiles[i] = p
	}
	if m.Profiles == nil {
		c.Profiles = nil
	}
	return &c
}

// CloneDependencies deep-copies a dependency list.
func CloneDependencies(deps []Dependency) []Dependency {
	if deps == nil {
		return nil
	}
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		d.Exclusions = slices.Clone(d.Exclusions)
		out[i] = d
	}
	return out
}

// ClonePlugins deep-copies a plugin list.
func ClonePlugins(plugins []Plugin) []Plugin {
	if plugins == nil {
		return nil
	}
	out := make([]Plugin, len(plugins))
	for i, p := range plugins {
		p.Dependencies = CloneDependencies(p.Dependencies)
		out[i] = p
	}
	return out
}

func cloneDependencyManagement(dm *DependencyManagement) *DependencyManagement {
	if dm == nil {
		return nil
	}
	return &DependencyManagement{Dependencies: CloneDependencies(dm.Dependencies)}
}

func cloneBuild(b *Build) *Build {
	if b == nil {
		return nil
	}
	c := &Build{Plugins: ClonePlugins(b.Plugins)}
	if b.PluginManagement != nil {
		c.PluginManagement = &PluginManagement{Plugins: ClonePlugins(b.PluginManagement.Plugins)}
	}
	return c
}
