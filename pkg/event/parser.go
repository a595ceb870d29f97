package event

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lanyardapp/lanyard/pkg/domain/types"
)

// yamlEvent represents the YAML structure before conversion to domain objects
type yamlEvent struct {
	Version     string      `yaml:"version"`
	Slug        string      `yaml:"slug"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Venue       string      `yaml:"venue,omitempty"`
	StartsAt    time.Time   `yaml:"starts_at,omitempty"`
	EndsAt      time.Time   `yaml:"ends_at,omitempty"`
	Status      string      `yaml:"status,omitempty"`
	Form        []yamlField `yaml:"form,omitempty"`
}

// yamlField represents a registration form field in YAML
type yamlField struct {
	Name     string `yaml:"name"`
	Label    string `yaml:"label,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Required bool   `yaml:"required,omitempty"`
}

// Parse parses an event definition from YAML bytes
func Parse(yamlBytes []byte) (*Event, error) {
	if len(yamlBytes) == 0 {
		return nil, errors.New("empty YAML input")
	}

	var ye yamlEvent
	if err := yaml.Unmarshal(yamlBytes, &ye); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if ye.Version == "" {
		return nil, errors.New("missing required field: version")
	}
	if ye.Slug == "" {
		return nil, errors.New("missing required field: slug")
	}
	if ye.Name == "" {
		return nil, errors.New("missing required field: name")
	}

	e := &Event{
		ID:          types.NewEventID(),
		Slug:        ye.Slug,
		Name:        ye.Name,
		Description: ye.Description,
		Venue:       ye.Venue,
		StartsAt:    ye.StartsAt,
		EndsAt:      ye.EndsAt,
		Status:      StatusDraft,
		CreatedAt:   time.Now(),
	}

	if ye.Status != "" {
		e.Status = Status(ye.Status)
	}

	for _, yf := range ye.Form {
		if err := e.AddField(FormField{
			Name:     yf.Name,
			Label:    yf.Label,
			Path:     yf.Path,
			Required: yf.Required,
		}); err != nil {
			return nil, fmt.Errorf("failed to add form field: %w", err)
		}
	}

	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event definition: %w", err)
	}

	return e, nil
}

// Export serializes an event definition to YAML bytes suitable for Parse.
func Export(e *Event) ([]byte, error) {
	if e == nil {
		return nil, errors.New("cannot export nil event")
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	ye := yamlEvent{
		Version:     "1.0",
		Slug:        e.Slug,
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Status:      string(e.Status),
	}
	for _, f := range e.Form {
		ye.Form = append(ye.Form, yamlField{
			Name:     f.Name,
			Label:    f.Label,
			Path:     f.Path,
			Required: f.Required,
		})
	}

	data, err := yaml.Marshal(&ye)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event to YAML: %w", err)
	}
	return data, nil
}
