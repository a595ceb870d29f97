package designer

import (
	"github.com/lanyardapp/lanyard/pkg/geometry"
)

// Mode is the interaction controller's state.
type Mode string

// Controller states. Exactly one gesture is active at a time.
const (
	ModeIdle     Mode = "idle"
	ModeDragging Mode = "dragging"
	ModeResizing Mode = "resizing"
)

// Canvas dimensions in percent units.
const (
	canvasWidth  = 100.0
	canvasHeight = 100.0
)

// Callbacks are invoked by the controller as a gesture updates element
// geometry. Coordinates and dimensions are in percent of the badge canvas.
// Nil callbacks are skipped.
type Callbacks struct {
	// OnMove fires when an element's top-left position changes.
	OnMove func(id string, x, y float64)
	// OnResize fires when an element's position or size changes during a
	// resize gesture.
	OnResize func(id string, x, y, width, height float64)
	// OnFontSize fires when a text element's font size is rescaled with its
	// width.
	OnFontSize func(id string, size float64)
}

// Subscriber lets the host scope its pointer-move/up event delivery to the
// lifetime of a gesture. It is called when a gesture starts and returns a
// release function called when the gesture ends, so listeners never outlive
// the drag.
type Subscriber func() (release func())

// session holds the state of one drag gesture. It is created on pointer-down,
// consulted on every pointer-move, and discarded on pointer-up; it is never
// persisted.
type session struct {
	mode    Mode
	element *Element
	handle  geometry.Handle

	// Pointer position at gesture start, in container pixels.
	startPointerX float64
	startPointerY float64

	// Element geometry snapshot at gesture start, in percent. All resize math
	// is recomputed from this snapshot so repeated moves cannot accumulate
	// drift.
	startX        float64
	startY        float64
	startWidth    float64
	startHeight   float64
	startFontSize float64

	release func()
}

// Controller turns a stream of pointer events into move/resize updates on
// badge elements, running every candidate geometry through the boundary and
// resize engines. It is single-threaded: the host delivers events from one
// goroutine.
type Controller struct {
	containerWidth  float64 // pixels
	containerHeight float64 // pixels
	callbacks       Callbacks
	subscribe       Subscriber
	sess            *session
}

// NewController creates a controller. The container size defaults to 100x100
// pixels until the host reports its real dimensions.
func NewController(callbacks Callbacks) *Controller {
	return &Controller{
		containerWidth:  100,
		containerHeight: 100,
		callbacks:       callbacks,
	}
}

// SetSubscriber installs the host's gesture-scoped event subscription hook.
func (c *Controller) SetSubscriber(s Subscriber) {
	c.subscribe = s
}

// SetContainerSize reports the badge container's pixel dimensions, used to
// convert pointer coordinates to percent units. Non-positive dimensions are
// ignored.
func (c *Controller) SetContainerSize(widthPx, heightPx float64) {
	if widthPx <= 0 || heightPx <= 0 {
		return
	}
	c.containerWidth = widthPx
	c.containerHeight = heightPx
}

// Mode returns the current interaction state.
func (c *Controller) Mode() Mode {
	if c.sess == nil {
		return ModeIdle
	}
	return c.sess.mode
}

// Cursor returns the pointer affordance for hovering the given handle of an
// element, accounting for the element's rotation.
func (c *Controller) Cursor(e *Element, handle geometry.Handle) geometry.Cursor {
	return geometry.CursorForHandle(handle, e.Rotation)
}

// StartMove begins a move gesture from a pointer-down on the element body.
// The pointer position is in container pixels. Returns false if a gesture is
// already active; a second pointer-down is ignored until the current gesture
// ends.
func (c *Controller) StartMove(e *Element, pointerX, pointerY float64) bool {
	if c.sess != nil || e == nil {
		return false
	}
	c.sess = c.newSession(ModeDragging, e, pointerX, pointerY)
	return true
}

// StartResize begins a resize gesture from a pointer-down on one of the eight
// handles. Returns false if a gesture is already active or the handle is
// unknown.
func (c *Controller) StartResize(e *Element, handle geometry.Handle, pointerX, pointerY float64) bool {
	if c.sess != nil || e == nil || !handle.IsValid() {
		return false
	}
	sess := c.newSession(ModeResizing, e, pointerX, pointerY)
	sess.handle = handle
	c.sess = sess
	return true
}

// PointerMove advances the active gesture to the given pointer position in
// container pixels. Events outside a gesture are ignored.
func (c *Controller) PointerMove(pointerX, pointerY float64) {
	if c.sess == nil {
		return
	}
	switch c.sess.mode {
	case ModeDragging:
		c.moveTo(pointerX, pointerY)
	case ModeResizing:
		c.resizeTo(pointerX, pointerY)
	}
}

// PointerUp ends the active gesture. It must be delivered globally, not just
// over the element, since drags commonly leave the element's bounds. Safe to
// call with no active gesture.
func (c *Controller) PointerUp() {
	if c.sess == nil {
		return
	}
	if c.sess.release != nil {
		c.sess.release()
	}
	c.sess = nil
}

func (c *Controller) newSession(mode Mode, e *Element, pointerX, pointerY float64) *session {
	sess := &session{
		mode:          mode,
		element:       e,
		startPointerX: pointerX,
		startPointerY: pointerY,
		startX:        e.X,
		startY:        e.Y,
		startWidth:    e.Width,
		startHeight:   e.Height,
		startFontSize: e.FontSize,
	}
	if c.subscribe != nil {
		sess.release = c.subscribe()
	}
	return sess
}

// moveTo applies a move tick: pointer delta from gesture start, converted to
// percent, added to the starting position, then clamped to the canvas.
func (c *Controller) moveTo(pointerX, pointerY float64) {
	sess := c.sess
	e := sess.element

	dx := (pointerX - sess.startPointerX) / c.containerWidth * 100
	dy := (pointerY - sess.startPointerY) / c.containerHeight * 100

	cx := sess.startX + dx + sess.startWidth/2
	cy := sess.startY + dy + sess.startHeight/2

	cx, cy = geometry.ConstrainToCanvas(cx, cy, sess.startWidth, sess.startHeight, e.Rotation, canvasWidth, canvasHeight)

	e.SetCenter(cx, cy)
	if c.callbacks.OnMove != nil {
		c.callbacks.OnMove(e.ID, e.X, e.Y)
	}
}

// resizeTo applies a resize tick: the absolute pointer position is projected
// through the anchor-based resize from the gesture's starting geometry, then
// the result is clamped to the canvas.
func (c *Controller) resizeTo(pointerX, pointerY float64) {
	sess := c.sess
	e := sess.element

	mouseX := pointerX / c.containerWidth * 100
	mouseY := pointerY / c.containerHeight * 100

	res := geometry.AnchorResize(
		mouseX, mouseY,
		sess.startX+sess.startWidth/2, sess.startY+sess.startHeight/2,
		sess.startWidth, sess.startHeight,
		e.Rotation, sess.handle,
		geometry.MinWidthPercent, geometry.MinHeightPercent,
	)

	cx, cy := geometry.ConstrainToCanvas(res.CenterX, res.CenterY, res.Width, res.Height, e.Rotation, canvasWidth, canvasHeight)

	e.Width = res.Width
	e.Height = res.Height
	e.SetCenter(cx, cy)

	if c.callbacks.OnResize != nil {
		c.callbacks.OnResize(e.ID, e.X, e.Y, e.Width, e.Height)
	}

	if sess.handle.ControlsWidth() && e.Kind == ElementText && sess.startWidth > 0 {
		size := sess.startFontSize * (e.Width / sess.startWidth)
		if size < MinFontSize {
			size = MinFontSize
		}
		e.FontSize = size
		if c.callbacks.OnFontSize != nil {
			c.callbacks.OnFontSize(e.ID, size)
		}
	}
}
