// Package export renders arrays and scans as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/telesim/internal/array"
)

// bandColors cycles over bands in first-occurrence order.
var bandColors = []string{"#00ccff", "#ff4466", "#00ff88", "#ffaa00", "#aa66ff", "#ffffff"}

type point struct{ X, Y float64 }

// FocalPlaneSVG draws one circle per detector at its angular offset, colored
// by band, in a size x size document.
func FocalPlaneSVG(dets array.Detectors, size int) string {
	pts := make([]point, len(dets))
	for i, d := range dets {
		pts[i] = point{d.OffsetX, d.OffsetY}
	}
	toPx := fitter(pts, size, size)

	color := make(map[string]string)
	for i, b := range dets.Bands() {
		color[b] = bandColors[i%len(bandColors)]
	}
	r := math.Max(1, float64(size)/200)

	var sb strings.Builder
	writeHeader(&sb, size, size)
	for i, d := range dets {
		x, y := toPx(pts[i])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"><title>%d %s</title></circle>\n",
			x, y, r, color[d.Band], i, d.Band)
	}
	for i, b := range dets.Bands() {
		fmt.Fprintf(&sb, "<text x=\"8\" y=\"%d\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s</text>\n",
			16*(i+1), color[b], b)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// TrackSVG draws a polyline through (xs[i], ys[i]), such as a boresight
// az/el track. It returns "" for fewer than two points.
func TrackSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}
	pts := make([]point, len(xs))
	for i := range xs {
		pts[i] = point{xs[i], ys[i]}
	}
	toPx := fitter(pts, width, height)

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range pts {
		x, y := toPx(p)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// fitter maps data coordinates into a width x height box with 10% padding
// and y pointing up.
func fitter(pts []point, width, height int) func(point) (float64, float64) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	return func(p point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}
}
