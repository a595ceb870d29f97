package geometry

import "math"

// ResizeResult is the new geometry produced by AnchorResize. Center
// coordinates and dimensions are in percent of the container.
type ResizeResult struct {
	Width   float64
	Height  float64
	CenterX float64
	CenterY float64
}

// AnchorResize computes new element geometry for a resize gesture such that
// the edge or corner opposite the dragged handle (the anchor) stays fixed in
// global space, regardless of the element's rotation.
//
// The mouse position and the element geometry are both in percent-of-container
// units; angleDeg is clockwise-positive. Every call recomputes the result from
// the gesture's starting geometry, so the anchor cannot drift across repeated
// calls.
//
// Non-positive input dimensions are treated as the configured minimums before
// projection, so degenerate rectangles never reach the trigonometry.
func AnchorResize(mouseX, mouseY, cx, cy, width, height, angleDeg float64, handle Handle, minWidth, minHeight float64) ResizeResult {
	if width <= 0 {
		width = minWidth
	}
	if height <= 0 {
		height = minHeight
	}

	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	controlsW := handle.ControlsWidth()
	controlsH := handle.ControlsHeight()
	rightSide := handle.IsRightSide()
	bottomSide := handle.IsBottomSide()

	// Anchor point opposite the handle, in local coordinates. Edge handles
	// anchor on the opposite edge midpoint, corner handles on the opposite
	// corner.
	var anchorLocalX, anchorLocalY float64
	if controlsW {
		if rightSide {
			anchorLocalX = -width / 2
		} else {
			anchorLocalX = width / 2
		}
	}
	if controlsH {
		if bottomSide {
			anchorLocalY = -height / 2
		} else {
			anchorLocalY = height / 2
		}
	}

	// Anchor in global space. This point must not move for the whole gesture.
	anchorX := cx + anchorLocalX*cos - anchorLocalY*sin
	anchorY := cy + anchorLocalX*sin + anchorLocalY*cos

	// Mouse relative to the anchor, un-rotated into the element's local frame.
	dx := mouseX - anchorX
	dy := mouseY - anchorY
	localX := dx*cos + dy*sin
	localY := -dx*sin + dy*cos

	// Axis-lock: handles that do not control a dimension contribute nothing
	// along it.
	if !controlsW {
		localX = 0
	}
	if !controlsH {
		localY = 0
	}

	// Clamp to the minimum size, preserving which side of the anchor is
	// active.
	if controlsW {
		localX = clampMagnitude(localX, minWidth, rightSide)
	}
	if controlsH {
		localY = clampMagnitude(localY, minHeight, bottomSide)
	}

	// Rotate the clamped projection back to global space: the active edge
	// point.
	activeX := anchorX + localX*cos - localY*sin
	activeY := anchorY + localX*sin + localY*cos

	result := ResizeResult{
		Width:  width,
		Height: height,
		// The midpoint of anchor and active edge point is the new center;
		// recomputing it from scratch each call keeps the anchor exact.
		CenterX: (anchorX + activeX) / 2,
		CenterY: (anchorY + activeY) / 2,
	}
	if controlsW {
		result.Width = math.Abs(localX)
	}
	if controlsH {
		result.Height = math.Abs(localY)
	}

	return result
}

// clampMagnitude enforces |v| >= min while preserving v's sign. A zero value
// takes the handle's natural direction: positive for right/bottom handles,
// negative for left/top ones.
func clampMagnitude(v, min float64, positiveSide bool) float64 {
	if math.Abs(v) >= min {
		return v
	}
	switch {
	case v > 0:
		return min
	case v < 0:
		return -min
	case positiveSide:
		return min
	default:
		return -min
	}
}
