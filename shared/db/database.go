package db

import (
	"github.com/jmoiron/sqlx"
)

type Database interface {
	Connect() error
	Close() error
	DB() *sqlx.DB
}
