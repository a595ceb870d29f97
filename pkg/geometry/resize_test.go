package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anchorPoint computes the global position of the anchor opposite the given
// handle for an element with the given geometry. Used to verify anchor
// invariance.
func anchorPoint(cx, cy, w, h, angleDeg float64, handle Handle) (float64, float64) {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	var ax, ay float64
	if handle.ControlsWidth() {
		if handle.IsRightSide() {
			ax = -w / 2
		} else {
			ax = w / 2
		}
	}
	if handle.ControlsHeight() {
		if handle.IsBottomSide() {
			ay = -h / 2
		} else {
			ay = h / 2
		}
	}

	return cx + ax*cos - ay*sin, cy + ax*sin + ay*cos
}

func TestAnchorResize_EastHandleUnrotated(t *testing.T) {
	// 20x20 at (50,50), dragging the east handle to x=70 stretches the width
	// to 30. The west edge (x=40) stays put, so the center moves to 55.
	res := AnchorResize(70, 50, 50, 50, 20, 20, 0, HandleE, MinWidthPercent, MinHeightPercent)

	assert.InDelta(t, 30, res.Width, epsilon)
	assert.InDelta(t, 20, res.Height, epsilon)
	assert.InDelta(t, 55, res.CenterX, epsilon)
	assert.InDelta(t, 50, res.CenterY, epsilon)
}

func TestAnchorResize_Rotated45EastHandle(t *testing.T) {
	// A 20x20 square centered at (50,50) rotated 45 degrees. Moving the mouse
	// to the point whose local X (from the west-edge anchor) is 30 yields
	// width 30, unchanged height, and an unmoved anchor.
	const angle = 45.0
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	anchorX, anchorY := anchorPoint(50, 50, 20, 20, angle, HandleE)

	// Global mouse position with local coordinates (30, 0) from the anchor.
	mouseX := anchorX + 30*cos
	mouseY := anchorY + 30*sin

	res := AnchorResize(mouseX, mouseY, 50, 50, 20, 20, angle, HandleE, MinWidthPercent, MinHeightPercent)

	assert.InDelta(t, 30, res.Width, epsilon)
	assert.InDelta(t, 20, res.Height, epsilon)

	newAnchorX, newAnchorY := anchorPoint(res.CenterX, res.CenterY, res.Width, res.Height, angle, HandleE)
	assert.InDelta(t, anchorX, newAnchorX, epsilon)
	assert.InDelta(t, anchorY, newAnchorY, epsilon)
}

func TestAnchorResize_AnchorInvariance(t *testing.T) {
	// For every handle and a range of rotations, the anchor recomputed from
	// the result matches the anchor of the initial geometry for any drag
	// distance on the handle's active side, including distances below the
	// minimum size.
	magnitudes := []float64{2, 6, 12, 25, 40}

	for _, handle := range Handles() {
		for angle := -135.0; angle <= 180; angle += 45 {
			rad := angle * math.Pi / 180
			cos, sin := math.Cos(rad), math.Sin(rad)

			wantX, wantY := anchorPoint(50, 50, 24, 16, angle, handle)

			for _, mag := range magnitudes {
				// Local mouse offset from the anchor, on the handle's natural
				// side. Locked axes carry noise that the projection must
				// discard.
				lx, ly := 7.0, -9.0
				if handle.ControlsWidth() {
					if handle.IsRightSide() {
						lx = mag
					} else {
						lx = -mag
					}
				}
				if handle.ControlsHeight() {
					if handle.IsBottomSide() {
						ly = mag
					} else {
						ly = -mag
					}
				}

				mouseX := wantX + lx*cos - ly*sin
				mouseY := wantY + lx*sin + ly*cos

				res := AnchorResize(mouseX, mouseY, 50, 50, 24, 16, angle, handle, MinWidthPercent, MinHeightPercent)

				gotX, gotY := anchorPoint(res.CenterX, res.CenterY, res.Width, res.Height, angle, handle)
				require.InDelta(t, wantX, gotX, epsilon,
					"handle=%s angle=%v mag=%v", handle, angle, mag)
				require.InDelta(t, wantY, gotY, epsilon,
					"handle=%s angle=%v mag=%v", handle, angle, mag)
			}
		}
	}
}

func TestAnchorResize_MinimumSizeFloor(t *testing.T) {
	// Dragging any handle through or onto its own anchor can never shrink the
	// element below the configured minimums.
	mousePositions := [][2]float64{
		{50, 50}, {40, 50}, {50, 42}, {40, 42}, {39.9, 41.9}, {0, 0},
	}

	for _, handle := range Handles() {
		for _, m := range mousePositions {
			res := AnchorResize(m[0], m[1], 50, 50, 20, 16, 30, handle, MinWidthPercent, MinHeightPercent)

			require.GreaterOrEqual(t, res.Width, MinWidthPercent-epsilon,
				"handle=%s mouse=%v", handle, m)
			require.GreaterOrEqual(t, res.Height, MinHeightPercent-epsilon,
				"handle=%s mouse=%v", handle, m)
		}
	}
}

func TestAnchorResize_EdgeHandlesLockOtherAxis(t *testing.T) {
	tests := []struct {
		name   string
		handle Handle
		mouseX float64
		mouseY float64
	}{
		{name: "north keeps width", handle: HandleN, mouseX: 95, mouseY: 20},
		{name: "south keeps width", handle: HandleS, mouseX: 5, mouseY: 90},
		{name: "east keeps height", handle: HandleE, mouseX: 80, mouseY: 5},
		{name: "west keeps height", handle: HandleW, mouseX: 10, mouseY: 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := AnchorResize(tt.mouseX, tt.mouseY, 50, 50, 20, 16, 0, tt.handle, MinWidthPercent, MinHeightPercent)

			if !tt.handle.ControlsWidth() {
				assert.InDelta(t, 20, res.Width, epsilon)
			}
			if !tt.handle.ControlsHeight() {
				assert.InDelta(t, 16, res.Height, epsilon)
			}
		})
	}
}

func TestAnchorResize_CornerHandleBothAxes(t *testing.T) {
	// Dragging the southeast corner outward grows both dimensions; the
	// northwest corner stays fixed.
	res := AnchorResize(75, 70, 50, 50, 20, 16, 0, HandleSE, MinWidthPercent, MinHeightPercent)

	assert.InDelta(t, 35, res.Width, epsilon)
	assert.InDelta(t, 28, res.Height, epsilon)

	// Northwest corner of the original geometry.
	assert.InDelta(t, 40.0, res.CenterX-res.Width/2, epsilon)
	assert.InDelta(t, 42.0, res.CenterY-res.Height/2, epsilon)
}

func TestAnchorResize_DegenerateInputUsesMinimums(t *testing.T) {
	res := AnchorResize(60, 50, 50, 50, 0, -4, 0, HandleE, MinWidthPercent, MinHeightPercent)

	assert.GreaterOrEqual(t, res.Width, MinWidthPercent-epsilon)
	assert.InDelta(t, MinHeightPercent, res.Height, epsilon)
}
