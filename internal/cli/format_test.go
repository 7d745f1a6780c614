package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
	"github.com/jtripath/maven-dependency-management-extension/pkg/overrides"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

func sampleOverrides() *overrides.Map {
	m := overrides.New()
	m.Set("junit:junit", "4.12")
	m.Set("org.example:unversioned", "")
	return m
}

func TestWriteOverrides(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{formatJSON, []string{`"junit:junit": "4.12"`, `"org.example:unversioned": ""`}},
		{formatProperties, []string{"version.junit:junit=4.12\n", "version.org.example:unversioned=\n"}},
		{formatTable, []string{"Artifact", "junit:junit", "4.12", "2 entries"}},
		{"", []string{"junit:junit"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeOverrides(&buf, sampleOverrides(), tt.format); err != nil {
				t.Fatalf("writeOverrides() error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}

	if err := writeOverrides(&bytes.Buffer{}, sampleOverrides(), "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderLineage(t *testing.T) {
	eff := &pom.Model{GroupID: "g", ArtifactID: "a", Version: "1"}
	res := &model.Result{Effective: eff, Lineage: []*pom.Model{eff}}

	data, err := renderLineage(context.Background(), res, formatDOT, false)
	if err != nil {
		t.Fatalf("renderLineage() error: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph lineage {") {
		t.Errorf("dot output = %s", data)
	}

	if _, err := renderLineage(context.Background(), res, "png", false); err == nil {
		t.Error("expected error for unsupported format")
	}
}
