package designer

import "fmt"

// Template is an in-memory badge layout: an ordered collection of elements on
// a canvas normalized to 100x100 percent. Templates live for the duration of a
// design session and are not persisted.
type Template struct {
	Name     string
	elements []*Element
	index    map[string]*Element
}

// NewTemplate creates an empty badge template.
func NewTemplate(name string) *Template {
	return &Template{
		Name:     name,
		elements: make([]*Element, 0),
		index:    make(map[string]*Element),
	}
}

// DefaultTemplate returns a starter layout: name, company, and a check-in QR
// code.
func DefaultTemplate() *Template {
	t := NewTemplate("default")
	_ = t.Add(NewTextElement("name", 10, 15, 80, 14))
	_ = t.Add(NewTextElement("company", 10, 35, 80, 10))
	_ = t.Add(NewQRElement(35, 55, 30))
	return t
}

// Add appends an element to the template.
// Returns an error if the element is invalid or its ID already exists.
func (t *Template) Add(e *Element) error {
	if e == nil {
		return fmt.Errorf("cannot add nil element")
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := t.index[e.ID]; exists {
		return fmt.Errorf("element already exists: %s", e.ID)
	}
	t.elements = append(t.elements, e)
	t.index[e.ID] = e
	return nil
}

// Remove deletes an element by ID.
func (t *Template) Remove(id string) error {
	if _, exists := t.index[id]; !exists {
		return fmt.Errorf("element not found: %s", id)
	}
	delete(t.index, id)
	for i, e := range t.elements {
		if e.ID == id {
			t.elements = append(t.elements[:i], t.elements[i+1:]...)
			break
		}
	}
	return nil
}

// Element returns the element with the given ID, or nil if absent.
func (t *Template) Element(id string) *Element {
	return t.index[id]
}

// Elements returns the elements in insertion order. The returned slice must
// not be modified.
func (t *Template) Elements() []*Element {
	return t.elements
}

// Len returns the number of elements.
func (t *Template) Len() int {
	return len(t.elements)
}
