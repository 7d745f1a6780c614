// Package lineage renders the POM hierarchy behind an effective model as a
// node-link diagram.
//
// # Overview
//
// Each model of the lineage becomes a box, linked to its parent by a solid
// arrow. Imported bills of materials appear as notes linked by dashed
// "import" arrows. The implicit super POM is drawn as the root.
//
// # Usage
//
// Convert a build result to DOT format, then render to SVG:
//
//	dot := lineage.ToDOT(res, lineage.Options{Detailed: true})
//	svg, err := lineage.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels include packaging and the number of managed entries
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package lineage
