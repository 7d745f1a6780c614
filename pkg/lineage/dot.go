package lineage

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
	"github.com/jtripath/maven-dependency-management-extension/pkg/pom"
)

// SuperPOM is the node id of the implicit root.
const SuperPOM = "(super POM)"

// Options configures diagram generation.
type Options struct {
	// Detailed includes packaging and management counts in node labels.
	// When false, only the coordinate is shown.
	Detailed bool
}

// ToDOT converts a build result to Graphviz DOT format. The result can be
// rendered with [RenderSVG].
func ToDOT(res *model.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var prev string
	for i, m := range res.Lineage {
		id := m.ID()
		if i == 0 && res.Effective != nil {
			id = res.Effective.ID()
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, fmtLabel(m, opts.Detailed))
		if prev != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"parent\"];\n", prev, id)
		}
		prev = id
	}
	fmt.Fprintf(&buf, "  %q [style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", SuperPOM)
	if prev != "" {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", prev, SuperPOM)
	}

	seen := make(map[string]bool)
	for _, imp := range res.Imports {
		if !seen[imp.BOM] {
			seen[imp.BOM] = true
			fmt.Fprintf(&buf, "  %q [shape=note, fillcolor=lightyellow];\n", imp.BOM)
		}
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=\"import\"];\n", imp.Importer, imp.BOM)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(m *pom.Model, detailed bool) string {
	if !detailed {
		return m.ID()
	}
	packaging := m.Packaging
	if packaging == "" {
		packaging = "jar"
	}
	parts := []string{
		"packaging: " + packaging,
		fmt.Sprintf("managed: %d", len(m.ManagedDependencies())),
		fmt.Sprintf("plugins: %d", len(m.ManagedPlugins())),
	}
	return m.ID() + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
