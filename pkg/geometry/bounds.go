package geometry

import "math"

// BoundingBox is the axis-aligned bounding box of a (possibly rotated)
// rectangle. It is a derived value, recomputed on every geometry change.
type BoundingBox struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
	Width  float64
	Height float64
}

// RotatedBoundingBox computes the axis-aligned bounding box of a rectangle of
// the given dimensions centered at (cx, cy) and rotated by angleDeg degrees.
//
// Rotation is clockwise-positive in screen coordinates (y grows downward),
// matching on-screen rotation. With angleDeg == 0 the result is exactly the
// unrotated rectangle's bounds.
func RotatedBoundingBox(cx, cy, width, height, angleDeg float64) BoundingBox {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	halfW := width / 2
	halfH := height / 2

	// The four corners in local coordinates relative to the center.
	corners := [4][2]float64{
		{-halfW, -halfH},
		{halfW, -halfH},
		{halfW, halfH},
		{-halfW, halfH},
	}

	var left, right, top, bottom float64
	for i, c := range corners {
		// Clockwise rotation matrix [cos -sin; sin cos], then translate.
		x := cx + c[0]*cos - c[1]*sin
		y := cy + c[0]*sin + c[1]*cos
		if i == 0 {
			left, right = x, x
			top, bottom = y, y
			continue
		}
		left = math.Min(left, x)
		right = math.Max(right, x)
		top = math.Min(top, y)
		bottom = math.Max(bottom, y)
	}

	return BoundingBox{
		Left:   left,
		Right:  right,
		Top:    top,
		Bottom: bottom,
		Width:  right - left,
		Height: bottom - top,
	}
}

// ConstrainToCanvas clamps a candidate center position so the rotated
// rectangle's bounding box stays inside a canvas of the given dimensions.
// It returns the adjusted center; width, height and rotation are never changed.
//
// Each axis applies at most one correction: push right if the box overflows the
// left edge, otherwise push left if it overflows the right edge (and the same
// vertically). An element whose bounding box is larger than the canvas ends up
// pinned against one edge and still overflowing the other.
func ConstrainToCanvas(cx, cy, width, height, angleDeg, canvasWidth, canvasHeight float64) (adjustedX, adjustedY float64) {
	box := RotatedBoundingBox(cx, cy, width, height, angleDeg)

	var dx, dy float64
	if box.Left < 0 {
		dx = -box.Left
	} else if box.Right > canvasWidth {
		dx = canvasWidth - box.Right
	}
	if box.Top < 0 {
		dy = -box.Top
	} else if box.Bottom > canvasHeight {
		dy = canvasHeight - box.Bottom
	}

	return cx + dx, cy + dy
}
