// Package geometry implements the layout math of the poster canvas:
// contain-fit scaling for the uploaded image and the axis-independent
// clamps applied to every drag-stop and resize-stop commit.
package geometry

import (
	"math"

	"github.com/roguepikachu/easel/internal/domain"
)

// ContainFit scales an intrinsic image size so it fits inside the canvas
// while preserving aspect ratio. The width is anchored first; when the
// scaled height overflows the canvas, the height becomes the anchor
// instead. The result touches the canvas on at least one axis and never
// exceeds it on either.
func ContainFit(intrinsic, canvas domain.Size) domain.Size {
	if intrinsic.Width <= 0 || intrinsic.Height <= 0 {
		return domain.Size{}
	}
	scale := float64(canvas.Width) / float64(intrinsic.Width)
	fitted := domain.Size{
		Width:  canvas.Width,
		Height: roundPx(float64(intrinsic.Height) * scale),
	}
	if fitted.Height > canvas.Height {
		scale = float64(canvas.Height) / float64(intrinsic.Height)
		fitted = domain.Size{
			Width:  roundPx(float64(intrinsic.Width) * scale),
			Height: canvas.Height,
		}
	}
	return fitted
}

// ClampPoint pins a proposed top-left corner so a rectangle of the given
// size stays fully within the canvas. Axes clamp independently; a
// rectangle wider or taller than the canvas pins to zero on that axis.
func ClampPoint(p domain.Point, size, canvas domain.Size) domain.Point {
	return domain.Point{
		X: clampInt(p.X, 0, canvas.Width-size.Width),
		Y: clampInt(p.Y, 0, canvas.Height-size.Height),
	}
}

// ClampSize bounds a proposed size between the resize floor and the
// canvas. The floor itself shrinks to the canvas dimension when the
// canvas is smaller than the floor, so the result never exceeds the
// canvas on either axis.
func ClampSize(proposed, floor, canvas domain.Size) domain.Size {
	return domain.Size{
		Width:  clampInt(proposed.Width, min(floor.Width, canvas.Width), canvas.Width),
		Height: clampInt(proposed.Height, min(floor.Height, canvas.Height), canvas.Height),
	}
}

func roundPx(v float64) int {
	return int(math.Round(v))
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
