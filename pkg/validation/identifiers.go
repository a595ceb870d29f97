package validation

import "fmt"

// IsValidIdentifierChar checks if a character is valid for identifiers
// (alphanumeric, hyphen, or underscore).
//
// This function is used to validate event slugs, form field names, and other
// user-provided identifiers in Lanyard. It enforces a consistent naming
// convention across the application.
func IsValidIdentifierChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '_'
}

// ValidateIdentifier checks that s is a non-empty identifier made of valid
// identifier characters. The name parameter labels the identifier in error
// messages ("event slug", "field name", ...).
func ValidateIdentifier(name, s string) error {
	if s == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	for _, ch := range s {
		if !IsValidIdentifierChar(ch) {
			return fmt.Errorf("%s contains invalid character %q: %s", name, ch, s)
		}
	}
	return nil
}

// ValidateSlug checks that s is a valid event slug: a lowercase identifier
// that starts with a letter. Slugs appear in file names and check-in URLs, so
// they are stricter than general identifiers.
func ValidateSlug(s string) error {
	if s == "" {
		return fmt.Errorf("slug cannot be empty")
	}
	first := rune(s[0])
	if first < 'a' || first > 'z' {
		return fmt.Errorf("slug must start with a lowercase letter: %s", s)
	}
	for _, ch := range s {
		if ch >= 'A' && ch <= 'Z' {
			return fmt.Errorf("slug must be lowercase: %s", s)
		}
		if !IsValidIdentifierChar(ch) {
			return fmt.Errorf("slug contains invalid character %q: %s", ch, s)
		}
	}
	return nil
}
