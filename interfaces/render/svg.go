package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"thoughtgraph/application/visualization"
)

const (
	background  = "#0f172a"
	labelColor  = "#e2e8f0"
	edgeColor   = "#94a3b8"
	messageFont = "-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif"
)

// RenderSVG writes the scene as a standalone SVG document. Empty, closed
// and unavailable sessions render their message instead of a blank canvas.
func RenderSVG(w io.Writer, scene visualization.Scene, vp *Viewport) error {
	_, err := io.WriteString(w, SVG(scene, vp))
	return err
}

// SVG returns the scene as an SVG document
func SVG(scene visualization.Scene, vp *Viewport) string {
	if vp == nil {
		vp = NewViewport(0.5, 4)
	}
	width, height := scene.Size.Width, scene.Size.Height

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height))
	b.WriteString(fmt.Sprintf(`  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", background))

	if !scene.IsDrawable() {
		message := scene.Message
		if message == "" {
			message = "Nothing to show."
		}
		b.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" text-anchor="middle" fill="%s" font-family="%s" font-size="14">%s</text>`+"\n",
			width/2, height/2, labelColor, messageFont, html.EscapeString(message)))
		b.WriteString("</svg>\n")
		return b.String()
	}

	ox, oy := vp.Offset()
	b.WriteString(fmt.Sprintf(`  <g transform="translate(%.2f,%.2f) scale(%.3f)">`+"\n", ox, oy, vp.Scale()))

	b.WriteString(`    <g class="edges">` + "\n")
	for _, e := range scene.Edges {
		b.WriteString(fmt.Sprintf(`      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f" data-source="%s" data-target="%s"/>`+"\n",
			e.X1, e.Y1, e.X2, e.Y2, edgeColor, e.Width, e.Opacity,
			html.EscapeString(e.SourceID), html.EscapeString(e.TargetID)))
	}
	b.WriteString("    </g>\n")

	b.WriteString(`    <g class="nodes">` + "\n")
	for _, n := range scene.Nodes {
		b.WriteString(fmt.Sprintf(`      <g class="node" data-id="%s" opacity="%.2f">`+"\n",
			html.EscapeString(n.ID), n.Opacity))
		b.WriteString(fmt.Sprintf(`        <circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
			n.X, n.Y, n.Radius, n.Color))
		b.WriteString(fmt.Sprintf(`        <text x="%.2f" y="%.2f" fill="%s" font-family="%s" font-size="10">%s</text>`+"\n",
			n.X+n.Radius+3, n.Y+3, labelColor, messageFont, html.EscapeString(n.Label)))
		b.WriteString(fmt.Sprintf("        <title>%s</title>\n", html.EscapeString(n.Text)))
		b.WriteString("      </g>\n")
	}
	b.WriteString("    </g>\n")

	b.WriteString("  </g>\n</svg>\n")
	return b.String()
}
