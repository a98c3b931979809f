package document

import (
	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/engine"
	"github.com/linealab/linea/internal/geom"
)

// Sample builds the built-in demo sketch: an origin guide, a single-segment
// stroke levelled by a horizontal constraint, and a text annotation. New
// sketches and the playground start from it.
func Sample() *engine.Drawing {
	d := engine.New()

	d.SendEvent(engine.Event{Kind: engine.EvResizeView, W: 800, H: 600})

	origin := canvas.Object{Type: canvas.TypeFixedNode, Point: geom.V(0, 0)}
	d.SendEvent(engine.Event{Kind: engine.EvAddObject, Guide: true, Object: &origin})

	// A stroke from the pen: two pinned points, rubber band discarded on
	// commit.
	d.SendEvent(engine.Event{Kind: engine.EvKeyDown, Key: "p"})
	d.SendEvent(engine.Event{Kind: engine.EvMouseMove, P: geom.V(100, 100)})
	d.SendEvent(engine.Event{Kind: engine.EvMouseDown, Button: engine.ButtonPrimary, P: geom.V(100, 100)})
	d.SendEvent(engine.Event{Kind: engine.EvMouseMove, P: geom.V(300, 120)})
	d.SendEvent(engine.Event{Kind: engine.EvMouseDown, Button: engine.ButtonPrimary, P: geom.V(300, 120)})
	d.SendEvent(engine.Event{Kind: engine.EvMouseMove, P: geom.V(320, 140)})
	d.SendEvent(engine.Event{Kind: engine.EvKeyDown, Key: "Enter"})

	// Level the stroke.
	d.SendEvent(engine.Event{Kind: engine.EvMouseDown, Button: engine.ButtonPrimary, P: geom.V(200, 110)})
	d.SendEvent(engine.Event{Kind: engine.EvAddHorizontal})

	// Annotate it.
	d.SendEvent(engine.Event{Kind: engine.EvSelectTextTool})
	d.SendEvent(engine.Event{Kind: engine.EvMouseMove, P: geom.V(150, 80)})
	d.SendEvent(engine.Event{Kind: engine.EvSetTextValue, Text: `y = c`})
	d.SendEvent(engine.Event{Kind: engine.EvMouseDown, Button: engine.ButtonPrimary, P: geom.V(150, 80)})

	return d
}
