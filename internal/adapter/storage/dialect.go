package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect holds everything that differs between the supported stores: the
// driver name, the statement texts and the unique-key conflict signal.
type Dialect struct {
	Name        string
	SelectQuery string
	InsertQuery string
	UpdateQuery string

	uniqueViolation func(err error) bool
}

// IsUniqueViolation reports whether err is the store's primary-key or
// unique-constraint violation.
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil || d.uniqueViolation == nil {
		return false
	}
	return d.uniqueViolation(err)
}

const pgUniqueViolation = "23505"

var Postgres = Dialect{
	Name: "postgres",
	SelectQuery: `SELECT frame_number, brand_type, description, price, available_date, color
		FROM bikes WHERE frame_number = $1`,
	InsertQuery: `INSERT INTO bikes (frame_number, brand_type, description, price, available_date, color)
		VALUES ($1, $2, $3, $4, $5, $6)`,
	UpdateQuery: `UPDATE bikes
		SET brand_type = $1, description = $2, price = $3, available_date = $4, color = $5
		WHERE frame_number = $6`,
	uniqueViolation: func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
	},
}

var SQLite = Dialect{
	Name: "sqlite3",
	SelectQuery: `SELECT frame_number, brand_type, description, price, available_date, color
		FROM bikes WHERE frame_number = ?`,
	InsertQuery: `INSERT INTO bikes (frame_number, brand_type, description, price, available_date, color)
		VALUES (?, ?, ?, ?, ?, ?)`,
	UpdateQuery: `UPDATE bikes
		SET brand_type = ?, description = ?, price = ?, available_date = ?, color = ?
		WHERE frame_number = ?`,
	uniqueViolation: func(err error) bool {
		var liteErr sqlite3.Error
		if !errors.As(err, &liteErr) {
			return false
		}
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	},
}

// DialectFor resolves a driver name from configuration.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.Name:
		return Postgres, nil
	case SQLite.Name, "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}
