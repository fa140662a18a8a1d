package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/calderonweb/espacio-api/listings/domain"
	"github.com/calderonweb/espacio-api/shared/db"
	"github.com/jmoiron/sqlx"
)

var _ domain.ListingRepository = (*SQLListingRepository)(nil)

// SQLListingRepository implements domain.ListingRepository over sqlx.
// Queries use ? placeholders and are rebound for the active driver, so the
// same repository runs against SQLite and Postgres.
type SQLListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository creates a new SQLListingRepository
func NewListingRepository(conn *sqlx.DB) *SQLListingRepository {
	return &SQLListingRepository{
		db: conn,
	}
}

const insertListingQuery = `
	INSERT INTO departments (title, location, contact, price, bedrooms, bathrooms, description, image)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert persists a new listing and returns the assigned id
func (r *SQLListingRepository) Insert(ctx context.Context, l *domain.Listing) (int64, error) {
	if l == nil {
		return 0, fmt.Errorf("listing cannot be nil")
	}

	args := []any{l.Title, l.Location, l.Contact, l.Price, l.Bedrooms, l.Bathrooms, l.Description, l.Image}

	// lib/pq has no LastInsertId support, so Postgres goes through RETURNING
	if r.db.DriverName() == "postgres" {
		var id int64
		query := r.db.Rebind(insertListingQuery + " RETURNING id")
		if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert listing: %w", err)
		}
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(insertListingQuery), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert listing: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted listing id: %w", err)
	}

	return id, nil
}

const getListingQuery = `
	SELECT id, title, location, contact, price, bedrooms, bathrooms, description, image
	FROM departments
	WHERE id = ?
`

// Get retrieves a single listing by id
func (r *SQLListingRepository) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	var l domain.Listing
	ex := db.GetExecutor(ctx, r.db)
	err := sqlx.GetContext(ctx, ex, &l, ex.Rebind(getListingQuery), id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return &l, nil
}

const listListingsQuery = `
	SELECT id, title, location, contact, price, bedrooms, bathrooms, description, image
	FROM departments
	ORDER BY id
`

// List retrieves every listing ordered by id
func (r *SQLListingRepository) List(ctx context.Context) ([]*domain.Listing, error) {
	listings := make([]*domain.Listing, 0)
	err := r.db.SelectContext(ctx, &listings, listListingsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	return listings, nil
}

const searchListingsQuery = `
	SELECT id, title, location, contact, price, bedrooms, bathrooms, description, image
	FROM departments
	WHERE LOWER(title) LIKE LOWER(?) ESCAPE '\'
	   OR LOWER(location) LIKE LOWER(?) ESCAPE '\'
	ORDER BY id
`

// Search retrieves listings whose title or location contains the query as a
// case-insensitive substring
func (r *SQLListingRepository) Search(ctx context.Context, query string) ([]*domain.Listing, error) {
	needle := "%" + escapeLike(query) + "%"

	listings := make([]*domain.Listing, 0)
	err := r.db.SelectContext(ctx, &listings, r.db.Rebind(searchListingsQuery), needle, needle)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	return listings, nil
}

const updateListingQuery = `
	UPDATE departments
	SET title = ?, location = ?, contact = ?, price = ?, bedrooms = ?, bathrooms = ?, description = ?, image = ?
	WHERE id = ?
`

// Update writes every mutable field of an existing row
func (r *SQLListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	if l == nil {
		return fmt.Errorf("listing cannot be nil")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		ex := db.GetExecutor(txCtx, r.db)
		res, err := ex.ExecContext(txCtx, ex.Rebind(updateListingQuery),
			l.Title,
			l.Location,
			l.Contact,
			l.Price,
			l.Bedrooms,
			l.Bathrooms,
			l.Description,
			l.Image,
			l.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update listing: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check updated rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("department %d: %w", l.ID, domain.ErrNotFound)
		}

		return nil
	})
}

const deleteListingQuery = `
	DELETE FROM departments WHERE id = ?
`

// Delete removes a row by id
func (r *SQLListingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(deleteListingQuery), id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
