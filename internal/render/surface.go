// Package render projects generated poster state into paint operations and
// rasterizes them into downloadable PNG artifacts.
package render

import (
	"fmt"
	"image"

	"github.com/roguepikachu/easel/internal/domain"
)

// PaintOp is one draw instruction: a layer and its committed rectangle on
// the canvas. Rectangles may partially overhang the canvas (wide text);
// overhang clips at raster time.
type PaintOp struct {
	Layer  domain.Layer
	Bounds image.Rectangle
}

// Surface is the resolved paint plan of one generated poster. Ops are in
// paint order: image lowest, then title, subtitle, QR code on top.
type Surface struct {
	Width  int
	Height int
	Ops    []PaintOp
}

// Compose projects session state into a paint plan. It holds no state and
// re-derives the plan on every call. A session that has not generated a
// poster has no composition surface. Ops that are degenerate or lie wholly
// outside the canvas are dropped.
func Compose(state *domain.CanvasState) (Surface, error) {
	if state == nil || !state.Generated {
		return Surface{}, domain.ErrSurfaceUnavailable
	}
	canvas := image.Rect(0, 0, state.CanvasWidth, state.CanvasHeight)
	surface := Surface{Width: state.CanvasWidth, Height: state.CanvasHeight}
	for _, kind := range domain.LayerKinds {
		layer, ok := state.Layer(kind)
		if !ok {
			return Surface{}, fmt.Errorf("%w: generated state lacks %s layer", domain.ErrRenderFailed, kind)
		}
		rect := image.Rect(
			layer.Position.X,
			layer.Position.Y,
			layer.Position.X+layer.Size.Width,
			layer.Position.Y+layer.Size.Height,
		)
		if rect.Empty() || !rect.Overlaps(canvas) {
			continue
		}
		surface.Ops = append(surface.Ops, PaintOp{Layer: *layer, Bounds: rect})
	}
	return surface, nil
}
