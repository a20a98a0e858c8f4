package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/particlelife/internal/life"
)

// SnapshotToSVG draws each particle as a circle colored by its class. The
// image is size x size pixels showing viewport v. Particles scale their
// Radius so that the default radius spans about one 400th of the image.
func SnapshotToSVG(snap life.Snapshot, m int, theme Theme, v Viewport, size int) string {
	palette := theme.Palette(m)
	radiusScale := float64(size) / 400 / life.DefaultRadius

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, theme.Background))

	for class, col := range palette {
		sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", string(col)))
		for _, p := range snap {
			if p.Color != class {
				continue
			}
			x, y, ok := v.Project(p.X, p.Y, size, size)
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f"/>
`, x, y, p.Radius*radiusScale))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
