package sqlite

import (
	"github.com/calderonweb/espacio-api/listings/domain"
	"github.com/calderonweb/espacio-api/shared/db"
)

// migrations is the ordered list of all SQLite migrations.
// AUTOINCREMENT keeps rowids monotonic so deleted listing ids are never reused.
var migrations = []db.Migration{
	{
		Version: 1,
		Name:    "create_departments_table",
		Up: `
			CREATE TABLE IF NOT EXISTS departments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				location TEXT NOT NULL,
				contact TEXT NOT NULL,
				price REAL NOT NULL,
				bedrooms INTEGER NOT NULL,
				bathrooms REAL NOT NULL,
				description TEXT NOT NULL,
				image TEXT NOT NULL DEFAULT '` + domain.PlaceholderImageURL + `'
			);
		`,
	},
}
