package geom

// The sketch works in three coordinate frames. Viewport coordinates are
// pixel offsets from the drawing surface's top-left, y down. SVG coordinates
// are the viewport translated by the view box offset, y down. Data
// coordinates are the mathematical plane, y up, with its origin at a chosen
// point of the SVG frame.

// ViewBox is the visible window of the SVG plane.
type ViewBox struct {
	Offset Vec     `json:"offset"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Frame bundles the view box, data origin and zoom scale, and converts
// between the three coordinate frames.
type Frame struct {
	ViewBox    ViewBox `json:"viewBox"`
	DataOrigin Vec     `json:"dataOrigin"`
	Scale      float64 `json:"scale"`
}

// NewFrame returns a frame with unit scale and the data origin at (ox, oy).
func NewFrame(ox, oy, width, height float64) Frame {
	return Frame{
		ViewBox:    ViewBox{Width: width, Height: height},
		DataOrigin: Vec{ox, oy},
		Scale:      1,
	}
}

// ViewportToSVG translates a viewport point into the SVG frame.
func (f Frame) ViewportToSVG(p Vec) Vec {
	return p.Add(f.ViewBox.Offset)
}

// SVGToData converts an SVG point to data coordinates, flipping y.
func (f Frame) SVGToData(p Vec) Vec {
	return Vec{p.X - f.DataOrigin.X, f.DataOrigin.Y - p.Y}
}

// DataToSVG is the inverse of SVGToData.
func (f Frame) DataToSVG(p Vec) Vec {
	return Vec{p.X + f.DataOrigin.X, f.DataOrigin.Y - p.Y}
}

// ViewportToData composes ViewportToSVG and SVGToData.
func (f Frame) ViewportToData(p Vec) Vec {
	return f.SVGToData(f.ViewportToSVG(p))
}

// Resize sets the view box dimensions for a viewport of w×h pixels at the
// current scale.
func (f *Frame) Resize(w, h float64) {
	f.ViewBox.Width = w / f.Scale
	f.ViewBox.Height = h / f.Scale
}
