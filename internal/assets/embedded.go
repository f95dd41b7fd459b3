package assets

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/alnah/go-md2thesis/internal/hints"
)

//go:embed profiles/*.yaml
var profiles embed.FS

// EmbeddedLoader serves the profiles compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadProfile returns a bundled profile, suggesting the closest names when
// it does not exist.
func (e *EmbeddedLoader) LoadProfile(name string) ([]byte, error) {
	if err := ValidateProfileName(name); err != nil {
		return nil, err
	}
	data, err := profiles.ReadFile("profiles/" + name + profileExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %q%s", ErrProfileNotFound, name, hints.ForProfileNotFound(name, e.ProfileNames()))
	}
	return data, nil
}

// ProfileNames lists the bundled profiles.
func (e *EmbeddedLoader) ProfileNames() []string {
	entries, err := fs.ReadDir(profiles, "profiles")
	if err != nil {
		return nil
	}
	return profileNames(entries)
}

var _ ProfileLoader = (*EmbeddedLoader)(nil)

var bundled = NewEmbeddedLoader()

// LoadProfile loads a bundled profile by name.
func LoadProfile(name string) ([]byte, error) {
	return bundled.LoadProfile(name)
}

// ProfileNames lists the bundled profiles, sorted.
func ProfileNames() []string {
	return bundled.ProfileNames()
}
