// Package export renders a committed sketch to SVG.
package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
)

// Size of the box a text annotation renders into. The host's typesetter
// lays out the math inside it; the kernel only anchors the box.
const (
	textBoxWidth  = 200
	textBoxHeight = 40
)

// SVG renders the object map through the given frame. Non-guide paths
// become one <line> element per sub-segment; texts become a foreignObject
// wrapping the raw math body for the host to typeset. Guide objects are
// omitted.
func SVG(objects canvas.ObjectMap, frame geom.Frame) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+"\n",
		frame.ViewBox.Offset.X, frame.ViewBox.Offset.Y,
		frame.ViewBox.Width, frame.ViewBox.Height)

	for _, id := range objects.SortedIDs() {
		obj := objects[id]
		if obj.Guide {
			continue
		}
		switch obj.Type {
		case canvas.TypePath:
			for _, lineID := range obj.Lines {
				line := objects[lineID]
				a := frame.DataToSVG(objects[line.Point1].Point)
				b := frame.DataToSVG(objects[line.Point2].Point)
				fmt.Fprintf(&buf,
					`  <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="black" stroke-width="1"/>`+"\n",
					a.X, a.Y, b.X, b.Y)
			}
		case canvas.TypeText:
			p := frame.DataToSVG(objects[obj.Anchor].Point)
			fmt.Fprintf(&buf,
				`  <foreignObject x="%g" y="%g" width="%d" height="%d">`+
					`<div xmlns="http://www.w3.org/1999/xhtml" class="math">%s</div>`+
					`</foreignObject>`+"\n",
				p.X, p.Y, textBoxWidth, textBoxHeight,
				html.EscapeString(obj.Body))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// DefaultFrame returns the frame exports use when the caller does not supply
// one: data origin at the top-left, w×h viewport, unit scale.
func DefaultFrame(w, h float64) geom.Frame {
	return geom.NewFrame(0, 0, w, h)
}
