package assets

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeProfile writes {dir}/{name}.yaml.
func writeProfile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+profileExt), []byte(content), 0o600); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
}

func TestNewDirLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "school.yaml")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{"directory", t.TempDir(), false},
		{"empty path", "", true},
		{"missing directory", filepath.Join(t.TempDir(), "none"), true},
		{"regular file", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewDirLoader(tt.dir)
			if tt.wantErr && !errors.Is(err, ErrInvalidProfileDir) {
				t.Errorf("NewDirLoader(%q) error = %v, want ErrInvalidProfileDir", tt.dir, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewDirLoader(%q) error = %v", tt.dir, err)
			}
		})
	}
}

func TestDirLoader_LoadProfile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProfile(t, dir, "lab", "format:\n  passes: [tables]\n")
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o750); err != nil {
		t.Fatal(err)
	}
	loader, err := NewDirLoader(dir)
	if err != nil {
		t.Fatalf("NewDirLoader() error = %v", err)
	}

	t.Run("existing profile", func(t *testing.T) {
		t.Parallel()

		got, err := loader.LoadProfile("lab")
		if err != nil || string(got) != "format:\n  passes: [tables]\n" {
			t.Errorf("LoadProfile() = %q, %v", got, err)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadProfile("missing"); !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("LoadProfile() error = %v, want ErrProfileNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadProfile("../lab"); !errors.Is(err, ErrInvalidProfileName) {
			t.Errorf("LoadProfile() error = %v, want ErrInvalidProfileName", err)
		}
	})

	t.Run("directories are not profiles", func(t *testing.T) {
		t.Parallel()

		if got := loader.ProfileNames(); !slices.Equal(got, []string{"lab"}) {
			t.Errorf("ProfileNames() = %v, want [lab]", got)
		}
	})
}

func TestDirLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	secret := filepath.Join(t.TempDir(), "secret.yaml")
	if err := os.WriteFile(secret, []byte("secret: content"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(secret, filepath.Join(dir, "evil.yaml")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	loader, err := NewDirLoader(dir)
	if err != nil {
		t.Fatalf("NewDirLoader() error = %v", err)
	}
	data, err := loader.LoadProfile("evil")
	if !errors.Is(err, ErrProfileRead) {
		t.Errorf("LoadProfile() = %q, %v, want ErrProfileRead", data, err)
	}
}
