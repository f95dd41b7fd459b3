package assets

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alnah/go-md2thesis/internal/hints"
)

// Resolver looks profiles up in a user directory first and in the bundled
// set second, so a school can override "thesis" or add its own.
type Resolver struct {
	user    ProfileLoader // nil without a profile directory
	bundled ProfileLoader
}

// NewResolver returns a Resolver over dir and the bundled profiles. An
// empty dir means bundled profiles only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{bundled: NewEmbeddedLoader()}
	if dir == "" {
		return r, nil
	}
	user, err := NewDirLoader(dir)
	if err != nil {
		return nil, err
	}
	r.user = user
	return r, nil
}

// LoadProfile returns the user's profile when there is one. Invalid names
// and read failures are not retried against the bundled set.
func (r *Resolver) LoadProfile(name string) ([]byte, error) {
	if r.user != nil {
		data, err := r.user.LoadProfile(name)
		if !errors.Is(err, ErrProfileNotFound) {
			return data, err
		}
	}

	data, err := r.bundled.LoadProfile(name)
	if r.user != nil && errors.Is(err, ErrProfileNotFound) {
		return nil, fmt.Errorf("%w: %q%s", ErrProfileNotFound, name, hints.ForProfileNotFound(name, r.ProfileNames()))
	}
	return data, err
}

// ProfileNames merges user and bundled names.
func (r *Resolver) ProfileNames() []string {
	names := r.bundled.ProfileNames()
	if r.user != nil {
		names = append(names, r.user.ProfileNames()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// HasUserProfiles reports whether a profile directory is configured.
func (r *Resolver) HasUserProfiles() bool {
	return r.user != nil
}

var _ ProfileLoader = (*Resolver)(nil)
