// Package geometry implements the badge-layout geometry engine: rotation-aware
// bounding boxes, canvas boundary constraints, and anchor-preserving resize math
// for rectangular elements positioned in percent-of-container units.
package geometry

// Handle identifies one of the eight resize handles of a rectangular element:
// four corners plus four edge midpoints.
type Handle string

// Resize handle positions, named by compass direction.
const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

// Minimum element dimensions in percent of the container. Resize operations
// never produce an element smaller than these.
const (
	MinWidthPercent  = 5.0
	MinHeightPercent = 3.0
)

// ControlsWidth reports whether dragging this handle changes the element width.
// Only the pure vertical handles (n, s) leave width untouched.
func (h Handle) ControlsWidth() bool {
	return h != HandleN && h != HandleS
}

// ControlsHeight reports whether dragging this handle changes the element height.
// Only the pure horizontal handles (e, w) leave height untouched.
func (h Handle) ControlsHeight() bool {
	return h != HandleE && h != HandleW
}

// IsRightSide reports whether the handle sits on the element's right edge.
func (h Handle) IsRightSide() bool {
	return h == HandleE || h == HandleNE || h == HandleSE
}

// IsBottomSide reports whether the handle sits on the element's bottom edge.
func (h Handle) IsBottomSide() bool {
	return h == HandleS || h == HandleSE || h == HandleSW
}

// IsValid reports whether h is one of the eight defined handles.
func (h Handle) IsValid() bool {
	switch h {
	case HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW:
		return true
	}
	return false
}

// Handles lists all eight handles in clockwise order starting from north.
func Handles() []Handle {
	return []Handle{HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW}
}
