package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Sentinel errors for profile loading.
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidProfileName = errors.New("invalid profile name")
	ErrInvalidProfileDir  = errors.New("invalid profile directory")
	ErrProfileRead        = errors.New("failed to read profile")
)

const profileExt = ".yaml"

// ProfileLoader defines the contract for loading formatting profiles.
type ProfileLoader interface {
	// LoadProfile returns the YAML source of a profile by name (without
	// .yaml extension).
	// Returns ErrProfileNotFound if the profile doesn't exist.
	// Returns ErrInvalidProfileName if the name is not a bare file stem.
	LoadProfile(name string) ([]byte, error)

	// ProfileNames lists the available profile names, sorted.
	ProfileNames() []string
}

// ValidateProfileName rejects names that could address anything other than
// {name}.yaml inside a profile directory: empty names, path separators and
// dots.
func ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProfileName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	}
	return nil
}

// profileNames extracts sorted profile names from directory entries.
func profileNames(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if stem, ok := strings.CutSuffix(e.Name(), profileExt); ok && !e.IsDir() {
			names = append(names, stem)
		}
	}
	sort.Strings(names)
	return names
}
