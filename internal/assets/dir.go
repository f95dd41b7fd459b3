package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirLoader loads {name}.yaml profiles from a directory. Reads go through
// an os.Root, so symlinks pointing outside the directory are refused.
type DirLoader struct {
	dir string
}

// NewDirLoader checks that dir is a readable directory.
// Returns ErrInvalidProfileDir otherwise.
func NewDirLoader(dir string) (*DirLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidProfileDir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfileDir, err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidProfileDir, abs, err)
	}
	defer root.Close()
	if _, err := fs.ReadDir(root.FS(), "."); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidProfileDir, abs, err)
	}
	return &DirLoader{dir: abs}, nil
}

// LoadProfile reads {dir}/{name}.yaml.
func (d *DirLoader) LoadProfile(name string) ([]byte, error) {
	if err := ValidateProfileName(name); err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileRead, err)
	}
	defer root.Close()

	data, err := root.ReadFile(name + profileExt)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %q in %s", ErrProfileNotFound, name, d.dir)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrProfileRead, err)
	}
	return data, nil
}

// ProfileNames lists the profiles in the directory. An unreadable
// directory yields no names.
func (d *DirLoader) ProfileNames() []string {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil
	}
	return profileNames(entries)
}

var _ ProfileLoader = (*DirLoader)(nil)
