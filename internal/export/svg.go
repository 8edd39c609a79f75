package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/cymatics/internal/chladni"
	"github.com/san-kum/cymatics/internal/viz"
)

const background = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsWide()) * scale
	height := float64(canvas.DotsHigh()) * scale

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=%q>\n", color)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.DotsHigh(); y++ {
		for x := 0; x < canvas.DotsWide(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PositionsToSVG draws every particle of a flat x, y, z buffer on a
// size×size plate. Lifted particles are drawn larger and brighter.
func PositionsToSVG(positions []float64, size int, color string) string {
	n := len(positions) / chladni.Stride
	if n == 0 || size <= 0 {
		return ""
	}

	peak := 0.0
	for i := 2; i < len(positions); i += chladni.Stride {
		if positions[i] > peak {
			peak = positions[i]
		}
	}

	s := float64(size)
	var sb strings.Builder
	writeHeader(&sb, s, s)
	fmt.Fprintf(&sb, "<g fill=%q>\n", color)

	base := s / 800
	if base < 0.4 {
		base = 0.4
	}
	for i := 0; i < n; i++ {
		j := i * chladni.Stride
		x := (positions[j] + 1) / 2 * s
		y := (1 - positions[j+1]) / 2 * s

		lift := 0.0
		if peak > 0 {
			lift = positions[j+2] / peak
		}
		r := base * (1 + lift)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.2f\" fill-opacity=\"%.2f\"/>\n",
			x, y, r, 0.55+0.45*lift)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}
