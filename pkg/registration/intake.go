package registration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/lanyardapp/lanyard/pkg/event"
)

// Sentinel errors for registration intake.
var (
	ErrEventNotOpen    = errors.New("event is not open for registration")
	ErrInvalidPayload  = errors.New("submission payload is not valid JSON")
	ErrSchemaViolation = errors.New("submission payload violates schema")
	ErrMissingField    = errors.New("required form field missing from submission")
)

// Intake converts raw registration form submissions into participant records.
// Field values are extracted from the JSON payload with gjson paths taken
// from the event's form definition; an optional JSON schema is checked first.
type Intake struct {
	schema *gojsonschema.Schema
}

// NewIntake creates an intake with no schema; payloads are only required to
// be valid JSON.
func NewIntake() *Intake {
	return &Intake{}
}

// SetSchema installs a JSON schema that all submission payloads must satisfy.
func (in *Intake) SetSchema(schemaJSON []byte) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to compile registration schema: %w", err)
	}
	in.schema = schema
	return nil
}

// Register processes one submission payload against the event's form
// definition and returns the new participant. The event must be open.
func (in *Intake) Register(ev *event.Event, payload []byte) (*Participant, error) {
	if ev == nil {
		return nil, fmt.Errorf("cannot register against nil event")
	}
	if !ev.IsOpen() {
		return nil, ErrEventNotOpen
	}
	if !gjson.ValidBytes(payload) {
		return nil, ErrInvalidPayload
	}

	if in.schema != nil {
		result, err := in.schema.Validate(gojsonschema.NewBytesLoader(payload))
		if err != nil {
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				msgs = append(msgs, desc.String())
			}
			return nil, fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
		}
	}

	p := NewParticipant(ev.ID, "", "")

	for _, field := range ev.Form {
		path := field.Path
		if path == "" {
			path = field.Name
		}

		value := gjson.GetBytes(payload, path)
		if !value.Exists() {
			if field.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingField, field.Name)
			}
			continue
		}

		switch field.Name {
		case "name":
			p.Name = value.String()
		case "email":
			p.Email = value.String()
		case "company":
			p.Company = value.String()
		default:
			p.Attributes[field.Name] = value.Value()
		}
	}

	return p, nil
}
