package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

func TestStatus_LineageWritten(t *testing.T) {
	tests := []struct {
		name    string
		res     *model.Result
		summary string
	}{
		{
			name:    "single model",
			res:     &model.Result{Lineage: []*pom.Model{{}}},
			summary: "(1 model, 0 imports)",
		},
		{
			name: "parents and imports",
			res: &model.Result{
				Lineage: []*pom.Model{{}, {}, {}},
				Imports: []model.Import{{Importer: "a", BOM: "b"}},
			},
			summary: "(3 models, 1 import)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newStatus(&buf).lineageWritten("org.example:leaf:1.0", tt.res, "out/lineage.svg")

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			if len(lines) != 2 {
				t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
			}
			if !strings.Contains(lines[0], "Lineage of org.example:leaf:1.0") || !strings.Contains(lines[0], tt.summary) {
				t.Errorf("summary line = %q, want coordinate and %q", lines[0], tt.summary)
			}
			if !strings.Contains(lines[1], "out/lineage.svg") {
				t.Errorf("file line = %q", lines[1])
			}
		})
	}
}

func TestStatus_CacheCleared(t *testing.T) {
	var buf bytes.Buffer
	newStatus(&buf).cacheCleared(1, "/tmp/depmgmt")

	out := buf.String()
	if !strings.Contains(out, "Cleared 1 cached response\n") {
		t.Errorf("output = %q, want singular count", out)
	}
	if !strings.Contains(out, "Directory: /tmp/depmgmt") {
		t.Errorf("output = %q, want directory detail", out)
	}
}
