package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanyardapp/lanyard/pkg/designer"
	"github.com/lanyardapp/lanyard/pkg/geometry"
)

func key(r rune) KeyEvent {
	return KeyEvent{Key: r}
}

func special(name string) KeyEvent {
	return KeyEvent{IsSpecial: true, Special: name}
}

func TestParseKeyInput(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  KeyEvent
	}{
		{"letter", []byte{'a'}, KeyEvent{Key: 'a'}},
		{"escape", []byte{27}, KeyEvent{IsSpecial: true, Special: "Escape"}},
		{"up arrow", []byte{27, '[', 'A'}, KeyEvent{IsSpecial: true, Special: "Up"}},
		{"down arrow", []byte{27, '[', 'B'}, KeyEvent{IsSpecial: true, Special: "Down"}},
		{"right arrow", []byte{27, '[', 'C'}, KeyEvent{IsSpecial: true, Special: "Right"}},
		{"left arrow", []byte{27, '[', 'D'}, KeyEvent{IsSpecial: true, Special: "Left"}},
		{"back tab", []byte{27, '[', 'Z'}, KeyEvent{IsSpecial: true, Special: "BackTab"}},
		{"tab", []byte{'\t'}, KeyEvent{IsSpecial: true, Special: "Tab"}},
		{"enter", []byte{'\r'}, KeyEvent{IsSpecial: true, Special: "Enter"}},
		{"ctrl-c", []byte{3}, KeyEvent{Key: 'c', Ctrl: true}},
		{"empty", nil, KeyEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseKeyInput(tt.input))
		})
	}
}

func TestDesignerView_Selection(t *testing.T) {
	v := NewDesignerView(nil)
	require.Equal(t, 3, v.Template().Len())

	first := v.Selected()
	require.NotNil(t, first)
	assert.Equal(t, "name", first.Field)

	v.HandleKey(special("Tab"))
	assert.Equal(t, "company", v.Selected().Field)

	v.HandleKey(special("BackTab"))
	assert.Equal(t, "name", v.Selected().Field)

	// Wraps around.
	v.HandleKey(special("BackTab"))
	assert.Equal(t, designer.ElementQR, v.Selected().Kind)
}

func TestDesignerView_NudgeMovesElement(t *testing.T) {
	v := NewDesignerView(nil)
	e := v.Selected()
	startX, startY := e.X, e.Y

	v.HandleKey(special("Right"))
	assert.InDelta(t, startX+1, e.X, 1e-9)

	v.HandleKey(special("Down"))
	assert.InDelta(t, startY+1, e.Y, 1e-9)
}

func TestDesignerView_NudgeStaysOnCanvas(t *testing.T) {
	v := NewDesignerView(nil)
	e := v.Selected()

	for i := 0; i < 200; i++ {
		v.HandleKey(special("Left"))
	}
	assert.GreaterOrEqual(t, e.X, 0.0)
}

func TestDesignerView_HandleCycle(t *testing.T) {
	v := NewDesignerView(nil)

	assert.Equal(t, geometry.Handle(""), v.ActiveHandle())

	v.HandleKey(key('r'))
	assert.Equal(t, geometry.HandleE, v.ActiveHandle())

	// Stepping past the last handle returns to move mode.
	for i := 0; i < 8; i++ {
		v.HandleKey(key('r'))
	}
	assert.Equal(t, geometry.Handle(""), v.ActiveHandle())

	// The next press starts the cycle over.
	v.HandleKey(key('r'))
	assert.Equal(t, geometry.HandleE, v.ActiveHandle())

	v.HandleKey(special("Escape"))
	assert.Equal(t, geometry.Handle(""), v.ActiveHandle())
}

func TestDesignerView_ResizeNudge(t *testing.T) {
	v := NewDesignerView(nil)
	e := v.Selected()
	startWidth := e.Width

	v.HandleKey(key('r')) // east handle
	v.HandleKey(special("Right"))

	assert.InDelta(t, startWidth+1, e.Width, 1e-9)
}

func TestDesignerView_ResizeScalesFont(t *testing.T) {
	v := NewDesignerView(nil)
	e := v.Selected()
	require.Equal(t, designer.ElementText, e.Kind)
	startWidth := e.Width
	startFont := e.FontSize

	v.HandleKey(key('r'))
	for i := 0; i < 10; i++ {
		v.HandleKey(special("Right"))
	}

	assert.Greater(t, e.Width, startWidth)
	assert.InDelta(t, startFont*(e.Width/startWidth), e.FontSize, 1e-6)
}

func TestDesignerView_Rotate(t *testing.T) {
	v := NewDesignerView(nil)
	e := v.Selected()

	v.HandleKey(key(']'))
	assert.InDelta(t, 15, e.Rotation, 1e-9)

	v.HandleKey(key('['))
	v.HandleKey(key('['))
	assert.InDelta(t, -15, e.Rotation, 1e-9)

	// Rotation keeps the element inside the canvas.
	box := e.BoundingBox()
	assert.GreaterOrEqual(t, box.Left, 0.0)
	assert.LessOrEqual(t, box.Right, 100.0)
}

func TestDesignerView_AddAndRemove(t *testing.T) {
	v := NewDesignerView(designer.NewTemplate("blank"))
	assert.Nil(t, v.Selected())

	// Nudges and rotations on an empty layout are no-ops.
	v.HandleKey(special("Right"))
	v.HandleKey(key(']'))

	v.HandleKey(key('a'))
	require.Equal(t, 1, v.Template().Len())
	assert.Equal(t, "name", v.Selected().Field)

	v.HandleKey(key('Q'))
	require.Equal(t, 2, v.Template().Len())
	assert.Equal(t, designer.ElementQR, v.Selected().Kind)

	v.HandleKey(key('x'))
	require.Equal(t, 1, v.Template().Len())
	assert.Equal(t, "name", v.Selected().Field)

	v.HandleKey(key('x'))
	assert.Equal(t, 0, v.Template().Len())
	assert.Nil(t, v.Selected())
}

func TestDesignerView_QuitKeys(t *testing.T) {
	v := NewDesignerView(nil)

	assert.True(t, v.HandleKey(key('q')))
	assert.True(t, v.HandleKey(KeyEvent{Key: 'c', Ctrl: true}))
	assert.False(t, v.HandleKey(key('z')))
}
