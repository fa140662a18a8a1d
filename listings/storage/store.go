package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/calderonweb/espacio-api/listings/domain"
	"github.com/rs/zerolog/log"
)

var _ domain.ImageStore = (*Store)(nil)

// allowedExtensions is the fixed allow-list of accepted upload types
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// maxSuffixAttempts bounds the collision probe so a corrupted or hostile
// upload directory cannot spin the loop forever
const maxSuffixAttempts = 10000

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store is a filesystem-backed image store rooted at a single upload
// directory. It owns stored filenames: sanitizing, collision handling,
// deletion, and the local-vs-external distinction.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Allowed reports whether the filename carries an accepted image extension
func (s *Store) Allowed(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Save writes content under a sanitized, collision-free name derived from the
// suggested name and returns the name it was stored under. An existing file is
// never overwritten; the stem gets an incrementing _N suffix until a free name
// is found.
func (s *Store) Save(content []byte, name string) (string, error) {
	ext := filepath.Ext(name)
	if !allowedExtensions[strings.ToLower(ext)] {
		return "", fmt.Errorf("%q: %w", name, domain.ErrUnsupportedType)
	}

	stem := sanitizeFilename(strings.TrimSuffix(filepath.Base(name), ext))
	if stem == "" {
		stem = "image"
	}

	stored := stem + ext
	for attempt := 1; ; attempt++ {
		if _, err := os.Stat(filepath.Join(s.dir, stored)); os.IsNotExist(err) {
			break
		}
		if attempt > maxSuffixAttempts {
			return "", fmt.Errorf("no free name for %q after %d attempts", name, maxSuffixAttempts)
		}
		stored = fmt.Sprintf("%s_%d%s", stem, attempt, ext)
	}

	if err := os.WriteFile(filepath.Join(s.dir, stored), content, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return stored, nil
}

// Delete removes a locally stored file. Missing files are fine (idempotent
// delete); other failures are logged and swallowed so cleanup never blocks
// the database mutation it accompanies. External refs are ignored.
func (s *Store) Delete(name string) {
	if name == "" || s.IsExternal(name) {
		return
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("file", name).Msg("Failed to remove image file")
	}
}

// IsExternal reports whether ref is an http(s) URL rather than a stored filename
func (s *Store) IsExternal(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// PublicURL resolves a stored filename to a client-reachable URL under baseURL.
// External refs pass through unchanged.
func (s *Store) PublicURL(ref string, baseURL string) string {
	if s.IsExternal(ref) {
		return ref
	}
	return strings.TrimSuffix(baseURL, "/") + "/uploads/" + ref
}

// sanitizeFilename reduces a client-supplied name stem to a filesystem-safe
// form: path components stripped, whitespace collapsed to underscores, and
// anything outside [A-Za-z0-9_.-] removed.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
