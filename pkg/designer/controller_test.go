package designer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanyardapp/lanyard/pkg/geometry"
)

const epsilon = 1e-6

// recorder captures controller callback emissions for assertions.
type recorder struct {
	moves     int
	resizes   int
	fontSizes []float64
	lastX     float64
	lastY     float64
	lastW     float64
	lastH     float64
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnMove: func(id string, x, y float64) {
			r.moves++
			r.lastX, r.lastY = x, y
		},
		OnResize: func(id string, x, y, w, h float64) {
			r.resizes++
			r.lastX, r.lastY = x, y
			r.lastW, r.lastH = w, h
		},
		OnFontSize: func(id string, size float64) {
			r.fontSizes = append(r.fontSizes, size)
		},
	}
}

func newTestElement() *Element {
	e := NewTextElement("name", 40, 40, 20, 20)
	return e
}

func TestController_MoveGesture(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec.callbacks())
	c.SetContainerSize(200, 100)

	e := newTestElement()

	require.True(t, c.StartMove(e, 100, 50))
	assert.Equal(t, ModeDragging, c.Mode())

	// 20px right on a 200px container is 10 percent; 10px down on 100px is 10.
	c.PointerMove(120, 60)

	assert.Equal(t, 1, rec.moves)
	assert.InDelta(t, 50, e.X, epsilon)
	assert.InDelta(t, 50, e.Y, epsilon)
	assert.InDelta(t, 20, e.Width, epsilon)
	assert.InDelta(t, 20, e.Height, epsilon)

	c.PointerUp()
	assert.Equal(t, ModeIdle, c.Mode())

	// Events after the gesture ended are ignored.
	c.PointerMove(180, 90)
	assert.Equal(t, 1, rec.moves)
}

func TestController_MoveClampsToCanvas(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec.callbacks())
	c.SetContainerSize(200, 100)

	e := NewTextElement("name", 85, 40, 10, 10)

	require.True(t, c.StartMove(e, 0, 0))
	// 30px right is 15 percent: the candidate center is 105, overflowing the
	// right edge by 10.
	c.PointerMove(30, 0)

	assert.InDelta(t, 90, e.X, epsilon)
	assert.InDelta(t, 40, e.Y, epsilon)

	box := e.BoundingBox()
	assert.LessOrEqual(t, box.Right, 100+epsilon)
}

func TestController_ResizeGesture(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec.callbacks())
	c.SetContainerSize(200, 100)

	e := newTestElement() // 20x20 at (40,40), center (50,50)

	require.True(t, c.StartResize(e, geometry.HandleE, 120, 50))
	assert.Equal(t, ModeResizing, c.Mode())

	// Pixel (140, 50) is percent (70, 50): local X from the west anchor is 30.
	c.PointerMove(140, 50)

	assert.Equal(t, 1, rec.resizes)
	assert.InDelta(t, 30, e.Width, epsilon)
	assert.InDelta(t, 20, e.Height, epsilon)
	// The west edge stays at x=40.
	assert.InDelta(t, 40, e.X, epsilon)
	assert.InDelta(t, 40, e.Y, epsilon)

	c.PointerUp()
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestController_ResizeRecomputesFromGestureStart(t *testing.T) {
	// Many intermediate pointer positions must land on exactly the same
	// geometry as a single move to the final position: each tick recomputes
	// from the gesture's start snapshot rather than accumulating.
	run := func(path [][2]float64) *Element {
		c := NewController(Callbacks{})
		c.SetContainerSize(100, 100)
		e := newTestElement()
		e.Rotation = 30
		require.True(t, c.StartResize(e, geometry.HandleSE, 60, 60))
		for _, p := range path {
			c.PointerMove(p[0], p[1])
		}
		c.PointerUp()
		return e
	}

	jittery := run([][2]float64{{62, 58}, {71, 66}, {55, 73}, {68, 64}})
	direct := run([][2]float64{{68, 64}})

	assert.InDelta(t, direct.X, jittery.X, epsilon)
	assert.InDelta(t, direct.Y, jittery.Y, epsilon)
	assert.InDelta(t, direct.Width, jittery.Width, epsilon)
	assert.InDelta(t, direct.Height, jittery.Height, epsilon)
}

func TestController_ResizeEnforcesMinimums(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec.callbacks())
	c.SetContainerSize(100, 100)

	e := newTestElement()

	require.True(t, c.StartResize(e, geometry.HandleSE, 60, 60))
	// Drag all the way onto the anchor.
	c.PointerMove(40, 40)

	assert.GreaterOrEqual(t, e.Width, geometry.MinWidthPercent-epsilon)
	assert.GreaterOrEqual(t, e.Height, geometry.MinHeightPercent-epsilon)
}

func TestController_FontSizeScalesWithWidth(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec.callbacks())
	c.SetContainerSize(100, 100)

	e := newTestElement() // width 20, font 16

	require.True(t, c.StartResize(e, geometry.HandleE, 60, 50))
	c.PointerMove(70, 50) // width 20 -> 30

	require.Len(t, rec.fontSizes, 1)
	assert.InDelta(t, 24, rec.fontSizes[0], epsilon)
	assert.InDelta(t, 24, e.FontSize, epsilon)
}

func TestController_FontSizeFloor(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec.callbacks())
	c.SetContainerSize(100, 100)

	e := newTestElement()

	require.True(t, c.StartResize(e, geometry.HandleE, 60, 50))
	// Width collapses to the 5 percent minimum; 16 * (5/20) = 4 is floored
	// to 8.
	c.PointerMove(41, 50)

	require.NotEmpty(t, rec.fontSizes)
	assert.InDelta(t, MinFontSize, rec.fontSizes[len(rec.fontSizes)-1], epsilon)
}

func TestController_NoFontSizeForVerticalResize(t *testing.T) {
	rec := &recorder{}
	c := NewController(rec.callbacks())
	c.SetContainerSize(100, 100)

	e := newTestElement()

	require.True(t, c.StartResize(e, geometry.HandleS, 50, 60))
	c.PointerMove(50, 75)

	assert.Empty(t, rec.fontSizes)
}

func TestController_SecondPointerDownIgnored(t *testing.T) {
	c := NewController(Callbacks{})
	e := newTestElement()
	other := NewTextElement("company", 10, 10, 20, 10)

	require.True(t, c.StartMove(e, 50, 50))
	assert.False(t, c.StartMove(other, 10, 10))
	assert.False(t, c.StartResize(other, geometry.HandleE, 10, 10))
	assert.Equal(t, ModeDragging, c.Mode())
}

func TestController_InvalidHandleRejected(t *testing.T) {
	c := NewController(Callbacks{})
	e := newTestElement()

	assert.False(t, c.StartResize(e, geometry.Handle("x"), 50, 50))
	assert.Equal(t, ModeIdle, c.Mode())
}

func TestController_SubscriberScopedToGesture(t *testing.T) {
	var acquired, released int
	c := NewController(Callbacks{})
	c.SetSubscriber(func() (release func()) {
		acquired++
		return func() { released++ }
	})

	e := newTestElement()

	require.True(t, c.StartMove(e, 50, 50))
	assert.Equal(t, 1, acquired)
	assert.Equal(t, 0, released)

	c.PointerUp()
	assert.Equal(t, 1, released)

	// A second gesture acquires again.
	require.True(t, c.StartResize(e, geometry.HandleNW, 40, 40))
	c.PointerUp()
	assert.Equal(t, 2, acquired)
	assert.Equal(t, 2, released)
}

func TestController_PointerUpWithoutGesture(t *testing.T) {
	c := NewController(Callbacks{})
	c.PointerUp() // must not panic
	assert.Equal(t, ModeIdle, c.Mode())
}
