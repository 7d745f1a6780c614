// Package overrides extracts version override tables from effective models.
//
// A table maps "groupId:artifactId" to a version. Entries keep the order in
// which the model declares them; a later declaration of the same key
// replaces the version but keeps the original position.
package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// Map is an insertion-ordered string map. The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]string
}

// New returns an empty map.
func New() *Map {
	return &Map{values: make(map[string]string)}
}

// Set stores version under key. Existing keys keep their position.
func (m *Map) Set(key, version string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = version
}

// Get returns the version stored under key.
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Merge copies every entry of other into m; other wins on conflicts.
func (m *Map) Merge(other *Map) {
	for _, k := range other.Keys() {
		m.Set(k, other.values[k])
	}
}

// ToMap returns an unordered copy.
func (m *Map) ToMap() map[string]string {
	out := make(map[string]string, m.Len())
	for _, k := range m.Keys() {
		out[k] = m.values[k]
	}
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving the order of its keys.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("overrides: expected JSON object, got %v", tok)
	}
	*m = Map{values: make(map[string]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v string
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("overrides: value of %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// Properties renders the map as "version.groupId:artifactId=version" lines,
// the form accepted by -D on a Maven command line. prefix replaces
// "version." when not empty.
func (m *Map) Properties(prefix string) string {
	if prefix == "" {
		prefix = "version."
	}
	var b strings.Builder
	for _, k := range m.Keys() {
		fmt.Fprintf(&b, "%s%s=%s\n", prefix, k, m.values[k])
	}
	return b.String()
}

// Dependencies returns the dependencyManagement versions of m keyed by
// "groupId:artifactId".
func Dependencies(m *pom.Model) *Map {
	out := New()
	if m == nil {
		return out
	}
	for _, d := range m.ManagedDependencies() {
		out.Set(d.GroupID+":"+d.ArtifactID, d.Version)
	}
	return out
}

// Plugins returns the build.pluginManagement versions of m keyed by
// "groupId:artifactId". Plugins without a groupId use
// [pom.DefaultPluginGroupID].
func Plugins(m *pom.Model) *Map {
	out := New()
	if m == nil {
		return out
	}
	for _, p := range m.ManagedPlugins() {
		out.Set(p.Key(), p.Version)
	}
	return out
}
