package domain

import "context"

// PlaceholderImageURL is stored when a listing has no uploaded image, and again
// when a previously uploaded image is cleared.
const PlaceholderImageURL = "https://placehold.co/300x200/cccccc/FFFFFF?text=Sin+Imagen"

// Listing represents a rental unit (a "department" on the wire).
// Image holds either a filename owned by the ImageStore or an external URL.
type Listing struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Location    string  `db:"location"`
	Contact     string  `db:"contact"`
	Price       float64 `db:"price"`
	Bedrooms    int     `db:"bedrooms"`
	Bathrooms   float64 `db:"bathrooms"`
	Description string  `db:"description"`
	Image       string  `db:"image"`
}

type ListingRepository interface {
	// Insert persists a new listing and returns the assigned id.
	Insert(ctx context.Context, l *Listing) (int64, error)

	// Get retrieves a single listing by id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*Listing, error)

	// List retrieves every listing ordered by id.
	List(ctx context.Context) ([]*Listing, error)

	// Search retrieves listings whose title or location contains the query
	// as a case-insensitive substring.
	Search(ctx context.Context, query string) ([]*Listing, error)

	// Update writes every mutable field of an existing row, or ErrNotFound.
	Update(ctx context.Context, l *Listing) error

	// Delete removes a row by id, or ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// ImageStore owns the lifecycle of locally uploaded image files. External URLs
// (including the placeholder) pass through it untouched.
type ImageStore interface {
	// Allowed reports whether the filename carries an accepted image extension.
	Allowed(name string) bool

	// Save writes the file under a sanitized, collision-free name and returns
	// the name it was stored under. Returns ErrUnsupportedType for disallowed
	// extensions.
	Save(content []byte, name string) (string, error)

	// Delete removes a locally stored file. Missing files and I/O failures are
	// not errors; failures are logged and swallowed so a cleanup problem never
	// blocks the surrounding database mutation.
	Delete(name string)

	// IsExternal reports whether ref is an http(s) URL rather than a stored
	// filename.
	IsExternal(ref string) bool

	// PublicURL resolves a stored filename to a client-reachable URL under
	// baseURL. External refs are returned unchanged.
	PublicURL(ref string, baseURL string) string
}
