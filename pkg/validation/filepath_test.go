package validation

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	t.Run("valid base directory", func(t *testing.T) {
		v, err := NewPathValidator(t.TempDir())
		if err != nil {
			t.Fatalf("NewPathValidator failed: %v", err)
		}
		if v == nil {
			t.Fatal("expected non-nil validator")
		}
	})

	t.Run("empty base path", func(t *testing.T) {
		if _, err := NewPathValidator(""); err == nil {
			t.Error("expected error for empty base path")
		}
	})

	t.Run("relative base path", func(t *testing.T) {
		if _, err := NewPathValidator("relative/path"); err == nil {
			t.Error("expected error for relative base path")
		}
	})

	t.Run("nonexistent base path", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "does-not-exist")
		if _, err := NewPathValidator(missing); err == nil {
			t.Error("expected error for nonexistent base path")
		}
	})

	t.Run("base path is a file", func(t *testing.T) {
		base := t.TempDir()
		file := filepath.Join(base, "file.txt")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewPathValidator(file); err == nil {
			t.Error("expected error for file base path")
		}
	})
}

func TestPathValidator_Validate(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "events"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "events", "gala.yaml"), []byte("name: gala"), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := NewPathValidator(base)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", "events/gala.yaml", false},
		{"new file in existing dir", "events/new.yaml", false},
		{"empty path", "", true},
		{"parent traversal", "../outside.yaml", true},
		{"nested traversal", "events/../../outside.yaml", true},
		{"absolute path", "/etc/passwd", true},
		{"overlong path", strings.Repeat("a", maxPathLen+1), true},
		{"missing parent", "nope/deeper/file.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err == nil && !filepath.IsAbs(got) {
				t.Errorf("Validate(%q) returned non-absolute path %q", tt.path, got)
			}
		})
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on Windows")
	}

	outside := t.TempDir()
	base := t.TempDir()

	link := filepath.Join(base, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Fatal(err)
	}

	v, err := NewPathValidator(base)
	if err != nil {
		t.Fatal(err)
	}

	// A path through a symlink pointing outside the base must be rejected.
	if _, err := v.Validate("escape/file.yaml"); err == nil {
		t.Error("expected error for symlink escaping base directory")
	}
}

func TestValidateSecurePath(t *testing.T) {
	base := t.TempDir()

	got, err := ValidateSecurePath(base, "export.yaml")
	if err != nil {
		t.Fatalf("ValidateSecurePath failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("unexpected validated path: %q", got)
	}

	if _, err := ValidateSecurePath("not-absolute", "export.yaml"); err == nil {
		t.Error("expected error for invalid base path")
	}
}
