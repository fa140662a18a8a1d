package application

import (
	"context"
	"fmt"

	"github.com/calderonweb/espacio-api/listings/domain"
	"github.com/rs/zerolog/log"
)

// ListingService orchestrates the validator, the image store and the
// repository so that no partially-valid record is ever committed and no
// local image file outlives the row that references it.
//
// Side-effect ordering on every mutation: validate everything first, then
// write the new file, then commit the row, then clean up replaced files best
// effort. A filesystem failure therefore never leaves a dangling database
// reference, while a crash between file write and commit can at worst orphan
// a file.
type ListingService struct {
	repo  domain.ListingRepository
	store domain.ImageStore
}

func NewListingService(repo domain.ListingRepository, store domain.ImageStore) *ListingService {
	return &ListingService{
		repo:  repo,
		store: store,
	}
}

// Create validates a full submission and persists a new listing. On any
// validation failure nothing is written, neither file nor row. An absent image
// leaves the placeholder URL in place.
func (s *ListingService) Create(ctx context.Context, req CreateRequest) (*domain.Listing, error) {
	listing := &domain.Listing{Image: domain.PlaceholderImageURL}

	errs := validateListing(req.Fields, listing, true)
	if req.Image != nil && !s.store.Allowed(req.Image.Filename) {
		errs["image"] = msgUnsupportedImage
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	if req.Image != nil {
		stored, err := s.store.Save(req.Image.Content, req.Image.Filename)
		if err != nil {
			log.Error().Err(err).Str("file", req.Image.Filename).Msg("Failed to store uploaded image")
			return nil, &domain.ValidationError{Fields: fieldErrors{"image": "failed to save image"}}
		}
		listing.Image = stored
	}

	id, err := s.repo.Insert(ctx, listing)
	if err != nil {
		// keep the store consistent with the row that never materialized
		if req.Image != nil {
			s.store.Delete(listing.Image)
		}
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	listing.ID = id
	return listing, nil
}

// List returns every listing, or only those matching the query as a
// case-insensitive substring of title or location.
func (s *ListingService) List(ctx context.Context, query string) ([]*domain.Listing, error) {
	if query == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

// Get returns a single listing by id.
func (s *ListingService) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.repo.Get(ctx, id)
}

// Update applies a partial submission to an existing listing. Absent fields
// stay untouched. The image follows three branches: a new upload replaces the
// old file, a present-but-empty image value without the unchanged flag resets
// to the placeholder, anything else leaves the reference alone. If any field
// fails validation the whole update aborts with no side effects.
func (s *ListingService) Update(ctx context.Context, id int64, req UpdateRequest) (*domain.Listing, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	errs := validateListing(req.Fields, &updated, false)

	replaceImage := req.Image != nil
	clearImage := !replaceImage && req.ImageSubmitted && !req.ImageUnchanged

	if replaceImage && !s.store.Allowed(req.Image.Filename) {
		errs["image"] = msgUnsupportedImage
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	if replaceImage {
		stored, err := s.store.Save(req.Image.Content, req.Image.Filename)
		if err != nil {
			log.Error().Err(err).Str("file", req.Image.Filename).Msg("Failed to store replacement image")
			return nil, &domain.ValidationError{Fields: fieldErrors{"image": "failed to save image"}}
		}
		updated.Image = stored
	} else if clearImage {
		updated.Image = domain.PlaceholderImageURL
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if replaceImage {
			s.store.Delete(updated.Image)
		}
		return nil, err
	}

	// the old file is only removed once the row no longer references it
	if replaceImage || clearImage {
		s.store.Delete(current.Image)
	}

	return &updated, nil
}

// Delete removes a listing and, best effort, its locally stored image file.
// The row deletion is the operation of record; file cleanup cannot block it.
func (s *ListingService) Delete(ctx context.Context, id int64) error {
	listing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	s.store.Delete(listing.Image)

	return s.repo.Delete(ctx, id)
}
