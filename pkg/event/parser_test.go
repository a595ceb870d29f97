package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
version: "1.0"
slug: gophercon-2026
name: GopherCon 2026
description: The annual Go conference
venue: Convention Center Hall B
status: open
form:
  - name: name
    label: Full name
    required: true
  - name: email
    label: Email
    required: true
  - name: company
    label: Company
    path: profile.company
`

func TestParse(t *testing.T) {
	e, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "gophercon-2026", e.Slug)
	assert.Equal(t, "GopherCon 2026", e.Name)
	assert.Equal(t, StatusOpen, e.Status)
	require.Len(t, e.Form, 3)

	company, ok := e.Field("company")
	require.True(t, ok)
	assert.Equal(t, "profile.company", company.Path)
	assert.False(t, company.Required)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty input", yaml: ""},
		{name: "not yaml", yaml: "{{nope"},
		{name: "missing version", yaml: "slug: x-event\nname: X"},
		{name: "missing slug", yaml: "version: \"1.0\"\nname: X"},
		{name: "missing name", yaml: "version: \"1.0\"\nslug: x-event"},
		{name: "bad slug", yaml: "version: \"1.0\"\nslug: Bad Slug\nname: X"},
		{
			name: "duplicate field",
			yaml: "version: \"1.0\"\nslug: x-event\nname: X\nform:\n  - name: email\n  - name: email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	original, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	data, err := Export(original)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, original.Slug, parsed.Slug)
	assert.Equal(t, original.Name, parsed.Name)
	assert.Equal(t, original.Status, parsed.Status)
	assert.Equal(t, original.Form, parsed.Form)
}

func TestExport_Nil(t *testing.T) {
	_, err := Export(nil)
	assert.Error(t, err)
}
