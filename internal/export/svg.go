// Package export draws stored traces as standalone SVG charts.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/viz"
)

type point struct{ X, Y float64 }

// TraceSVG writes the named series of a trace against time as an SVG line
// chart. The y range always includes zero so thrust curves sit on the axis.
func TraceSVG(w io.Writer, snapshots []ballistics.Snapshot, series string, width, height int) error {
	data, err := viz.Series(series, snapshots)
	if err != nil {
		return err
	}
	if len(data) < 2 {
		return fmt.Errorf("need at least two samples to draw %s, got %d", series, len(data))
	}

	points := make([]point, len(data))
	for i, s := range snapshots {
		points[i] = point{X: s.Time, Y: data[i]}
	}
	_, err = io.WriteString(w, lineSVG(points, width, height, string(viz.CurrentTheme.Primary)))
	return err
}

func lineSVG(points []point, width, height int, strokeColor string) string {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := 0.0, 0.0
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
