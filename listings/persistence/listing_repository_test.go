package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/calderonweb/espacio-api/listings/domain"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *sqlx.DB {
	conn, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// a second pool connection would see its own empty :memory: database
	conn.SetMaxOpenConns(1)

	_, err = conn.Exec(`
		CREATE TABLE departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			location TEXT NOT NULL,
			contact TEXT NOT NULL,
			price REAL NOT NULL,
			bedrooms INTEGER NOT NULL,
			bathrooms REAL NOT NULL,
			description TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		t.Fatalf("failed to create departments table: %v", err)
	}

	return conn
}

func testListing() *domain.Listing {
	return &domain.Listing{
		Title:       "Loft A",
		Location:    "Downtown",
		Contact:     "555-1234567",
		Price:       1200,
		Bedrooms:    2,
		Bathrooms:   1.5,
		Description: "Nice loft",
		Image:       domain.PlaceholderImageURL,
	}
}

func TestListingRepository_InsertAndGet(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)
	ctx := context.Background()

	listing := testListing()
	id, err := repo.Insert(ctx, listing)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Insert returned id 0")
	}

	retrieved, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if retrieved.ID != id {
		t.Errorf("ID = %v, want %v", retrieved.ID, id)
	}
	if retrieved.Title != listing.Title {
		t.Errorf("Title = %v, want %v", retrieved.Title, listing.Title)
	}
	if retrieved.Location != listing.Location {
		t.Errorf("Location = %v, want %v", retrieved.Location, listing.Location)
	}
	if retrieved.Contact != listing.Contact {
		t.Errorf("Contact = %v, want %v", retrieved.Contact, listing.Contact)
	}
	if retrieved.Price != listing.Price {
		t.Errorf("Price = %v, want %v", retrieved.Price, listing.Price)
	}
	if retrieved.Bedrooms != listing.Bedrooms {
		t.Errorf("Bedrooms = %v, want %v", retrieved.Bedrooms, listing.Bedrooms)
	}
	if retrieved.Bathrooms != listing.Bathrooms {
		t.Errorf("Bathrooms = %v, want %v", retrieved.Bathrooms, listing.Bathrooms)
	}
	if retrieved.Description != listing.Description {
		t.Errorf("Description = %v, want %v", retrieved.Description, listing.Description)
	}
	if retrieved.Image != listing.Image {
		t.Errorf("Image = %v, want %v", retrieved.Image, listing.Image)
	}
}

func TestListingRepository_Get_NotFound(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)

	_, err := repo.Get(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestListingRepository_List(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)
	ctx := context.Background()

	listings, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("Expected empty list, got %d", len(listings))
	}

	for _, title := range []string{"Loft A", "Loft B", "Loft C"} {
		l := testListing()
		l.Title = title
		if _, err := repo.Insert(ctx, l); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	listings, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("Expected 3 listings, got %d", len(listings))
	}
	if listings[0].Title != "Loft A" || listings[2].Title != "Loft C" {
		t.Errorf("Listings not ordered by id: %v, %v", listings[0].Title, listings[2].Title)
	}
}

func TestListingRepository_Search(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)
	ctx := context.Background()

	seed := []struct{ title, location string }{
		{title: "Sunny Loft", location: "Downtown"},
		{title: "Garden Flat", location: "Suburbs"},
		{title: "Penthouse", location: "Downtown East"},
		{title: "100% Quiet Studio", location: "Riverside"},
	}
	for _, s := range seed {
		l := testListing()
		l.Title = s.title
		l.Location = s.location
		if _, err := repo.Insert(ctx, l); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{
			name:     "Title substring",
			query:    "loft",
			expected: 1,
		},
		{
			name:     "Location substring case-insensitive",
			query:    "DOWNTOWN",
			expected: 2,
		},
		{
			name:     "Matches title or location",
			query:    "s",
			expected: 4,
		},
		{
			name:     "No match",
			query:    "castle",
			expected: 0,
		},
		{
			name:     "Percent is literal",
			query:    "100%",
			expected: 1,
		},
		{
			name:     "Underscore is literal",
			query:    "_",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := repo.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search(%q) failed: %v", tt.query, err)
			}
			if len(results) != tt.expected {
				t.Errorf("Search(%q) returned %d listings, want %d", tt.query, len(results), tt.expected)
			}
		})
	}
}

func TestListingRepository_Update(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)
	ctx := context.Background()

	listing := testListing()
	id, err := repo.Insert(ctx, listing)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	listing.ID = id
	listing.Price = 1500
	listing.Image = "photo.png"

	if err := repo.Update(ctx, listing); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retrieved, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved.Price != 1500 {
		t.Errorf("Price = %v, want 1500", retrieved.Price)
	}
	if retrieved.Image != "photo.png" {
		t.Errorf("Image = %v, want photo.png", retrieved.Image)
	}
	if retrieved.Title != listing.Title {
		t.Errorf("Title = %v, want %v", retrieved.Title, listing.Title)
	}
}

func TestListingRepository_Update_NotFound(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)

	listing := testListing()
	listing.ID = 42

	err := repo.Update(context.Background(), listing)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
}

func TestListingRepository_Delete(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)
	ctx := context.Background()

	id, err := repo.Insert(ctx, testListing())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}

	// Second delete reports the missing row
	if err := repo.Delete(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Second delete error = %v, want ErrNotFound", err)
	}
}

func TestListingRepository_IdsNotReused(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	repo := NewListingRepository(conn)
	ctx := context.Background()

	first, err := repo.Insert(ctx, testListing())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := repo.Delete(ctx, first); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	second, err := repo.Insert(ctx, testListing())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if second <= first {
		t.Errorf("Expected id after %d, got %d", first, second)
	}
}
