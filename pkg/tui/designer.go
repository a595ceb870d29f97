package tui

import (
	"fmt"
	"math"

	"github.com/dshills/goterm"

	"github.com/lanyardapp/lanyard/pkg/designer"
	"github.com/lanyardapp/lanyard/pkg/geometry"
)

// rotationStep is the rotation applied per keypress, in degrees.
const rotationStep = 15.0

// nudgeStep is the pointer travel per arrow keypress, in canvas cells.
const nudgeStep = 1.0

// handleCycle is the order resize handles are stepped through with 'r'.
var handleCycle = []geometry.Handle{
	geometry.HandleE,
	geometry.HandleSE,
	geometry.HandleS,
	geometry.HandleSW,
	geometry.HandleW,
	geometry.HandleNW,
	geometry.HandleN,
	geometry.HandleNE,
}

// DesignerView is the interactive badge layout editor. It renders the
// template on a cell grid and translates keyboard input into pointer gestures
// driven through the interaction controller: each arrow keypress is a
// complete pointer-down/move/up cycle on the element body or the active
// resize handle.
type DesignerView struct {
	template   *designer.Template
	controller *designer.Controller

	selected  int             // index into template.Elements(), -1 when empty
	handle    geometry.Handle // active resize handle, "" means move mode
	handleIdx int

	// Canvas drawing area in screen cells, set on each render. The canvas
	// cell grid doubles as the controller's pixel space.
	canvasX, canvasY int
	canvasW, canvasH int

	status string
}

// NewDesignerView creates a designer view editing the given template. A nil
// template starts from the default badge layout.
func NewDesignerView(tpl *designer.Template) *DesignerView {
	if tpl == nil {
		tpl = designer.DefaultTemplate()
	}

	v := &DesignerView{
		template: tpl,
		selected: -1,
		canvasW:  100,
		canvasH:  100,
	}
	v.controller = designer.NewController(designer.Callbacks{})

	if tpl.Len() > 0 {
		v.selected = 0
	}

	return v
}

// Template returns the template being edited.
func (v *DesignerView) Template() *designer.Template {
	return v.template
}

// Selected returns the currently selected element, or nil.
func (v *DesignerView) Selected() *designer.Element {
	els := v.template.Elements()
	if v.selected < 0 || v.selected >= len(els) {
		return nil
	}
	return els[v.selected]
}

// ActiveHandle returns the active resize handle, or "" in move mode.
func (v *DesignerView) ActiveHandle() geometry.Handle {
	return v.handle
}

// HandleKey processes one keyboard event. Returns true when the view wants
// the application to exit.
func (v *DesignerView) HandleKey(event KeyEvent) bool {
	if event.Ctrl && event.Key == 'c' {
		return true
	}

	if event.IsSpecial {
		switch event.Special {
		case "Tab":
			v.selectNext(1)
		case "BackTab":
			v.selectNext(-1)
		case "Escape":
			v.handle = ""
		case "Up":
			v.nudge(0, -nudgeStep)
		case "Down":
			v.nudge(0, nudgeStep)
		case "Left":
			v.nudge(-nudgeStep, 0)
		case "Right":
			v.nudge(nudgeStep, 0)
		}
		return false
	}

	switch event.Key {
	case 'q':
		return true
	case 'r':
		v.cycleHandle()
	case '[':
		v.rotate(-rotationStep)
	case ']':
		v.rotate(rotationStep)
	case 'a':
		v.addElement(designer.NewTextElement("name", 10, 10, 40, 10))
	case 'c':
		v.addElement(designer.NewTextElement("company", 10, 25, 40, 8))
	case 'Q':
		v.addElement(designer.NewQRElement(60, 60, 25))
	case 'x':
		v.removeSelected()
	}
	return false
}

func (v *DesignerView) selectNext(step int) {
	n := v.template.Len()
	if n == 0 {
		v.selected = -1
		return
	}
	v.selected = ((v.selected+step)%n + n) % n
	v.handle = ""
}

// cycleHandle steps through the eight resize handles, returning to move mode
// after the last one.
func (v *DesignerView) cycleHandle() {
	if v.Selected() == nil {
		return
	}
	if v.handle == "" {
		v.handleIdx = 0
		v.handle = handleCycle[0]
		return
	}
	v.handleIdx++
	if v.handleIdx >= len(handleCycle) {
		v.handle = ""
		return
	}
	v.handle = handleCycle[v.handleIdx]
}

// nudge performs one synthetic pointer gesture: down on the element body (or
// its active handle), a single move by (dx, dy) canvas cells, then up.
func (v *DesignerView) nudge(dx, dy float64) {
	e := v.Selected()
	if e == nil {
		return
	}

	v.controller.SetContainerSize(float64(v.canvasW), float64(v.canvasH))

	if v.handle == "" {
		px, py := v.toCells(e.CenterX(), e.CenterY())
		if !v.controller.StartMove(e, px, py) {
			return
		}
		v.controller.PointerMove(px+dx, py+dy)
	} else {
		hx, hy := v.handlePoint(e, v.handle)
		px, py := v.toCells(hx, hy)
		if !v.controller.StartResize(e, v.handle, px, py) {
			return
		}
		v.controller.PointerMove(px+dx, py+dy)
	}
	v.controller.PointerUp()
}

// rotate turns the selected element and re-clamps it so the rotated bounds
// stay on the canvas.
func (v *DesignerView) rotate(deg float64) {
	e := v.Selected()
	if e == nil {
		return
	}

	e.Rotation = math.Mod(e.Rotation+deg, 360)
	cx, cy := geometry.ConstrainToCanvas(e.CenterX(), e.CenterY(), e.Width, e.Height, e.Rotation, 100, 100)
	e.SetCenter(cx, cy)
}

func (v *DesignerView) addElement(e *designer.Element) {
	if err := v.template.Add(e); err != nil {
		v.status = err.Error()
		return
	}
	v.selected = v.template.Len() - 1
	v.handle = ""
}

func (v *DesignerView) removeSelected() {
	e := v.Selected()
	if e == nil {
		return
	}
	if err := v.template.Remove(e.ID); err != nil {
		v.status = err.Error()
		return
	}
	if v.selected >= v.template.Len() {
		v.selected = v.template.Len() - 1
	}
	v.handle = ""
}

// handlePoint returns the canvas-percent position of a resize handle on the
// rotated element.
func (v *DesignerView) handlePoint(e *designer.Element, h geometry.Handle) (float64, float64) {
	var lx, ly float64
	if h.ControlsWidth() {
		lx = e.Width / 2
		if !h.IsRightSide() {
			lx = -lx
		}
	}
	if h.ControlsHeight() {
		ly = e.Height / 2
		if !h.IsBottomSide() {
			ly = -ly
		}
	}

	rad := e.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	gx := lx*cos - ly*sin
	gy := lx*sin + ly*cos

	return e.CenterX() + gx, e.CenterY() + gy
}

// toCells converts canvas-percent coordinates to canvas cells.
func (v *DesignerView) toCells(x, y float64) (float64, float64) {
	return x / 100 * float64(v.canvasW), y / 100 * float64(v.canvasH)
}

// Render draws the canvas frame, all elements, and the status line.
func (v *DesignerView) Render(screen *goterm.Screen) {
	fg := goterm.ColorDefault()
	bg := goterm.ColorDefault()

	w, h := screen.Size()
	if w < 20 || h < 8 {
		screen.DrawText(0, 0, "terminal too small", fg, bg, goterm.StyleNone)
		return
	}

	// Two lines reserved: title on top, status at the bottom.
	v.canvasX, v.canvasY = 1, 2
	v.canvasW, v.canvasH = w-2, h-4
	v.controller.SetContainerSize(float64(v.canvasW), float64(v.canvasH))

	title := fmt.Sprintf("Badge Designer - %s", v.template.Name)
	screen.DrawText(0, 0, title, fg, bg, goterm.StyleBold)

	v.drawFrame(screen, fg, bg)

	for i, e := range v.template.Elements() {
		v.drawElement(screen, e, i == v.selected, fg, bg)
	}

	screen.DrawText(0, h-1, v.statusLine(), fg, bg, goterm.StyleNone)
}

func (v *DesignerView) drawFrame(screen *goterm.Screen, fg, bg goterm.Color) {
	x0, y0 := v.canvasX-1, v.canvasY-1
	x1, y1 := v.canvasX+v.canvasW, v.canvasY+v.canvasH

	for x := x0; x <= x1; x++ {
		screen.SetCell(x, y0, goterm.NewCell('─', fg, bg, goterm.StyleNone))
		screen.SetCell(x, y1, goterm.NewCell('─', fg, bg, goterm.StyleNone))
	}
	for y := y0; y <= y1; y++ {
		screen.SetCell(x0, y, goterm.NewCell('│', fg, bg, goterm.StyleNone))
		screen.SetCell(x1, y, goterm.NewCell('│', fg, bg, goterm.StyleNone))
	}
	screen.SetCell(x0, y0, goterm.NewCell('┌', fg, bg, goterm.StyleNone))
	screen.SetCell(x1, y0, goterm.NewCell('┐', fg, bg, goterm.StyleNone))
	screen.SetCell(x0, y1, goterm.NewCell('└', fg, bg, goterm.StyleNone))
	screen.SetCell(x1, y1, goterm.NewCell('┘', fg, bg, goterm.StyleNone))
}

// drawElement projects the element's rotated bounding box onto the cell grid
// and draws it as a bordered box with its label inside.
func (v *DesignerView) drawElement(screen *goterm.Screen, e *designer.Element, selected bool, fg, bg goterm.Color) {
	box := e.BoundingBox()

	x0 := v.canvasX + int(box.Left/100*float64(v.canvasW))
	y0 := v.canvasY + int(box.Top/100*float64(v.canvasH))
	x1 := v.canvasX + int(box.Right/100*float64(v.canvasW))
	y1 := v.canvasY + int(box.Bottom/100*float64(v.canvasH))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	style := goterm.StyleNone
	if selected {
		style = goterm.StyleBold
	}

	for x := x0; x <= x1; x++ {
		screen.SetCell(x, y0, goterm.NewCell('·', fg, bg, style))
		screen.SetCell(x, y1, goterm.NewCell('·', fg, bg, style))
	}
	for y := y0; y <= y1; y++ {
		screen.SetCell(x0, y, goterm.NewCell('·', fg, bg, style))
		screen.SetCell(x1, y, goterm.NewCell('·', fg, bg, style))
	}

	label := string(e.Kind)
	if e.Field != "" {
		label = e.Field
	}
	if x1-x0 > 2 {
		max := x1 - x0 - 1
		if len(label) > max {
			label = label[:max]
		}
		screen.DrawText(x0+1, (y0+y1)/2, label, fg, bg, style)
	}

	if selected && v.handle != "" {
		hx, hy := v.handlePoint(e, v.handle)
		px, py := v.toCells(hx, hy)
		screen.SetCell(v.canvasX+int(px), v.canvasY+int(py), goterm.NewCell('■', fg, bg, goterm.StyleBold))
	}
}

// statusLine summarizes the selection, mode, and key help.
func (v *DesignerView) statusLine() string {
	if v.status != "" {
		s := v.status
		v.status = ""
		return s
	}

	e := v.Selected()
	if e == nil {
		return "empty layout | a:text c:company Q:qr q:quit"
	}

	mode := "move"
	if v.handle != "" {
		cursor := v.controller.Cursor(e, v.handle)
		mode = fmt.Sprintf("resize %s (%s)", v.handle, cursor)
	}

	label := string(e.Kind)
	if e.Field != "" {
		label = e.Field
	}

	return fmt.Sprintf("%s %.0f,%.0f %vx%v rot %.0f° | %s | tab:select r:handle [ ]:rotate x:delete q:quit",
		label, e.X, e.Y, fmt.Sprintf("%.0f", e.Width), fmt.Sprintf("%.0f", e.Height), e.Rotation, mode)
}
