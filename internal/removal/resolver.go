package removal

import (
	"context"
	"fmt"

	"github.com/roach88/hvprm/internal/ir"
)

// Identity selects a library. A non-zero ID wins; otherwise Title and
// Version are used together.
type Identity struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}

// IsEmpty reports whether no identity field was supplied at all.
func (id Identity) IsEmpty() bool {
	return id.ID == 0 && id.Title == "" && id.Version == ""
}

// String renders the identity for logs.
func (id Identity) String() string {
	if id.ID != 0 {
		return fmt.Sprintf("id=%d", id.ID)
	}
	return fmt.Sprintf("title=%q version=%q", id.Title, id.Version)
}

// filter converts the identity into a store filter. The version is
// validated whenever it is present, even without a title.
func (id Identity) filter() (ir.LibraryFilter, error) {
	if id.ID != 0 {
		return ir.LibraryFilter{ID: id.ID}, nil
	}

	if id.Version != "" {
		v, err := ir.ParseVersion(id.Version)
		if err != nil {
			return ir.LibraryFilter{}, newInvalidVersionError(id.Version, err)
		}
		title := ir.NormalizeTitle(id.Title)
		if title == "" {
			return ir.LibraryFilter{}, newNoIdentityError()
		}
		return ir.LibraryFilter{Title: title, Version: v}, nil
	}

	return ir.LibraryFilter{}, newNoIdentityError()
}

// Resolver maps an Identity to exactly one library.
type Resolver struct {
	finder LibraryFinder
}

// NewResolver creates a resolver reading from finder.
func NewResolver(finder LibraryFinder) *Resolver {
	return &Resolver{finder: finder}
}

// Resolve returns the single library matching id.
//
// Fails with ErrNoIdentityProvided, ErrInvalidVersionFormat,
// ErrLibraryNotFound or ErrAmbiguousLibrary. Store errors are returned
// wrapped but otherwise untranslated. Resolve has no side effects.
func (r *Resolver) Resolve(ctx context.Context, id Identity) (ir.Library, error) {
	filter, err := id.filter()
	if err != nil {
		return ir.Library{}, err
	}

	libraries, err := r.finder.FindLibraries(ctx, filter)
	if err != nil {
		return ir.Library{}, fmt.Errorf("resolve library: %w", err)
	}

	switch len(libraries) {
	case 0:
		return ir.Library{}, newNotFoundError()
	case 1:
		return libraries[0], nil
	default:
		return ir.Library{}, newAmbiguousError(len(libraries))
	}
}
