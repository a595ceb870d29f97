// Package designer implements the badge layout model and the pointer
// interaction controller that drives the geometry engine: moving and resizing
// layout elements on a normalized badge canvas.
package designer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lanyardapp/lanyard/pkg/geometry"
)

// ElementKind identifies what a badge element renders.
type ElementKind string

// Badge element kinds.
const (
	ElementText  ElementKind = "text"
	ElementQR    ElementKind = "qr"
	ElementImage ElementKind = "image"
)

// DefaultFontSize is the font size assigned to new text elements.
const DefaultFontSize = 16.0

// MinFontSize is the floor applied when font size is rescaled with element
// width.
const MinFontSize = 8.0

// Element is a single badge layout item. All geometry is in percent of the
// badge canvas (0-100 per axis): X/Y are the top-left corner, Width/Height the
// dimensions, Rotation is degrees clockwise.
type Element struct {
	ID       string
	Kind     ElementKind
	Field    string // participant field bound to text elements, e.g. "name"
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	FontSize float64
}

// NewTextElement creates a text element bound to a participant field.
func NewTextElement(field string, x, y, width, height float64) *Element {
	return &Element{
		ID:       uuid.NewString(),
		Kind:     ElementText,
		Field:    field,
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		FontSize: DefaultFontSize,
	}
}

// NewQRElement creates a square element that renders the participant's
// check-in code.
func NewQRElement(x, y, size float64) *Element {
	return &Element{
		ID:     uuid.NewString(),
		Kind:   ElementQR,
		X:      x,
		Y:      y,
		Width:  size,
		Height: size,
	}
}

// CenterX returns the element's horizontal center in percent.
func (e *Element) CenterX() float64 {
	return e.X + e.Width/2
}

// CenterY returns the element's vertical center in percent.
func (e *Element) CenterY() float64 {
	return e.Y + e.Height/2
}

// SetCenter repositions the element so its center lands on (cx, cy).
func (e *Element) SetCenter(cx, cy float64) {
	e.X = cx - e.Width/2
	e.Y = cy - e.Height/2
}

// BoundingBox returns the axis-aligned bounding box of the element's rotated
// rectangle.
func (e *Element) BoundingBox() geometry.BoundingBox {
	return geometry.RotatedBoundingBox(e.CenterX(), e.CenterY(), e.Width, e.Height, e.Rotation)
}

// Validate checks the element invariants: positive minimum dimensions and a
// known kind.
func (e *Element) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("element must have an ID")
	}
	switch e.Kind {
	case ElementText, ElementQR, ElementImage:
	default:
		return fmt.Errorf("unknown element kind: %s", e.Kind)
	}
	if e.Width < geometry.MinWidthPercent {
		return fmt.Errorf("element width %.2f below minimum %.2f", e.Width, geometry.MinWidthPercent)
	}
	if e.Height < geometry.MinHeightPercent {
		return fmt.Errorf("element height %.2f below minimum %.2f", e.Height, geometry.MinHeightPercent)
	}
	return nil
}
