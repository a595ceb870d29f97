package geometry

import "math"

// Cursor is the pointer affordance shown while hovering a resize handle. Only
// the four resize directions are distinguished; the host maps these to its own
// cursor assets.
type Cursor string

const (
	// CursorVertical indicates a north-south resize direction.
	CursorVertical Cursor = "ns"
	// CursorHorizontal indicates an east-west resize direction.
	CursorHorizontal Cursor = "ew"
	// CursorDiagonalNESW indicates a northeast-southwest resize direction.
	CursorDiagonalNESW Cursor = "nesw"
	// CursorDiagonalNWSE indicates a northwest-southeast resize direction.
	CursorDiagonalNWSE Cursor = "nwse"
)

// handleBaseAngle maps each handle to its compass angle in degrees at zero
// rotation.
var handleBaseAngle = map[Handle]float64{
	HandleN:  0,
	HandleNE: 45,
	HandleE:  90,
	HandleSE: 135,
	HandleS:  180,
	HandleSW: 225,
	HandleW:  270,
	HandleNW: 315,
}

// CursorForHandle returns the resize cursor for a handle on an element rotated
// by rotationDeg degrees. As the element rotates, the visual direction a
// handle resizes in rotates with it, so the handle's base angle plus the
// rotation is bucketed into 45-degree ranges centered on the eight compass
// directions.
func CursorForHandle(handle Handle, rotationDeg float64) Cursor {
	base, ok := handleBaseAngle[handle]
	if !ok {
		return CursorVertical
	}

	angle := math.Mod(base+rotationDeg, 360)
	if angle < 0 {
		angle += 360
	}

	// Offset by half a bucket so each bucket is centered on its direction.
	bucket := int(math.Floor(math.Mod(angle+22.5, 360)/45)) % 4

	switch bucket {
	case 0:
		return CursorVertical
	case 1:
		return CursorDiagonalNESW
	case 2:
		return CursorHorizontal
	default:
		return CursorDiagonalNWSE
	}
}
