package postgres

import (
	"fmt"

	"github.com/calderonweb/espacio-api/listings/domain"
	"github.com/calderonweb/espacio-api/shared/db"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// migrations is the ordered list of all Postgres migrations.
// Identity columns are never recycled, so deleted listing ids are not reused.
var migrations = []db.Migration{
	{
		Version: 1,
		Name:    "create_departments_table",
		Up: `
			CREATE TABLE IF NOT EXISTS departments (
				id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
				title TEXT NOT NULL,
				location TEXT NOT NULL,
				contact TEXT NOT NULL,
				price DOUBLE PRECISION NOT NULL,
				bedrooms INTEGER NOT NULL,
				bathrooms DOUBLE PRECISION NOT NULL,
				description TEXT NOT NULL,
				image TEXT NOT NULL DEFAULT '` + domain.PlaceholderImageURL + `'
			);
		`,
	},
}

// PostgresDB implements the db.Database interface for Postgres
type PostgresDB struct {
	dsn string
	db  *sqlx.DB
}

// New creates a Postgres database instance for the given DATABASE_URL.
func New(dsn string) db.Database {
	return &PostgresDB{
		dsn: dsn,
	}
}

// Connect opens a connection to the Postgres database
func (p *PostgresDB) Connect() error {
	if p.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := sqlx.Open("postgres", p.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	p.db = conn

	if err := db.RunMigrations(conn, migrations); err != nil {
		conn.Close()
		p.db = nil
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	return err
}

// DB returns the underlying *sqlx.DB instance
func (p *PostgresDB) DB() *sqlx.DB {
	return p.db
}
