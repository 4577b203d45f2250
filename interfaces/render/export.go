package render

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"thoughtgraph/application/visualization"
	"thoughtgraph/pkg/utils"
)

// timeNow stamps HTML exports
var timeNow = time.Now

// Format is an export file format
type Format string

const (
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// Formats lists the supported export formats
var Formats = []Format{FormatSVG, FormatHTML, FormatJSON, FormatDOT}

// ParseFormat converts user input into a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want svg, html, json or dot)", s)
}

// Export writes the scene in the given format
func Export(w io.Writer, format Format, scene visualization.Scene, vp *Viewport) error {
	switch format {
	case FormatSVG:
		return RenderSVG(w, scene, vp)
	case FormatHTML:
		return RenderHTML(w, scene, vp)
	case FormatJSON:
		return RenderJSON(w, scene)
	case FormatDOT:
		return RenderDOT(w, scene)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// RenderJSON writes the scene as indented JSON
func RenderJSON(w io.Writer, scene visualization.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(scene)
}

// RenderDOT writes the graph in Graphviz DOT format, undirected, with the
// laid-out positions as pinned coordinates
func RenderDOT(w io.Writer, scene visualization.Scene) error {
	var b strings.Builder
	b.WriteString("graph thoughts {\n")
	b.WriteString("  node [shape=circle, style=filled, fontsize=10];\n\n")

	for _, n := range scene.Nodes {
		b.WriteString(fmt.Sprintf("  %q [label=%q, fillcolor=%q, pos=\"%.1f,%.1f!\"];\n",
			n.ID, n.Label, n.Color, n.X, -n.Y))
	}
	if len(scene.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range scene.Edges {
		b.WriteString(fmt.Sprintf("  %q -- %q [penwidth=%.2f];\n", e.SourceID, e.TargetID, e.Width))
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHTML wraps the SVG in a self-contained page with a stats panel and
// a legend of tag colors
func RenderHTML(w io.Writer, scene visualization.Scene, vp *Viewport) error {
	legend := make(map[string]string)
	var legendOrder []string
	for _, n := range scene.Nodes {
		tag := ""
		if len(n.Tags) > 0 {
			tag = n.Tags[0]
		}
		if _, seen := legend[tag]; !seen {
			legend[tag] = n.Color
			legendOrder = append(legendOrder, tag)
		}
	}

	var rows strings.Builder
	for _, tag := range legendOrder {
		label := "#" + tag
		if tag == "" {
			label = "untagged"
		}
		rows.WriteString(fmt.Sprintf(`<div class="leg-row"><span class="dot" style="background:%s"></span>%s</div>`,
			legend[tag], html.EscapeString(label)))
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>thoughts graph</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:%s;color:#e0e0e0;font-family:%s}
#info{position:fixed;top:16px;left:16px;background:rgba(15,23,42,0.9);border:1px solid rgba(148,163,184,0.3);border-radius:12px;padding:16px 20px;font-size:13px;min-width:200px}
#info h2{font-size:16px;margin-bottom:8px}
.stat{color:#888;margin:2px 0}
.stat b{color:#ccc}
#legend{position:fixed;bottom:16px;left:16px;background:rgba(15,23,42,0.9);border-radius:10px;padding:12px 16px;font-size:11px;color:#aaa}
.leg-row{margin:3px 0;display:flex;align-items:center;gap:8px}
.dot{width:10px;height:10px;border-radius:50%%;display:inline-block}
</style>
</head>
<body>
<div id="info">
  <h2>thoughts</h2>
  <div class="stat"><b>%d</b> thoughts</div>
  <div class="stat"><b>%d</b> connections</div>
  <div class="stat"><b>%d</b> clusters</div>
  <div class="stat">threshold <b>%.0f%%</b>, %s layout</div>
  <div class="stat">exported %s</div>
</div>
<div id="legend">%s</div>
%s</body>
</html>
`,
		background, messageFont,
		scene.Stats.NodeCount, scene.Stats.EdgeCount, scene.Stats.ClusterCount,
		scene.Threshold*100, html.EscapeString(scene.Layout.String()),
		html.EscapeString(utils.FormatDate(timeNow())),
		rows.String(),
		SVG(scene, vp))

	_, err := io.WriteString(w, page)
	return err
}
