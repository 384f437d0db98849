package models

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrOptionNotFound is returned when an option does not belong to the product.
	ErrOptionNotFound = errors.New("option not found")
	// ErrOptionValueNotFound is returned when a value does not belong to the option.
	ErrOptionValueNotFound = errors.New("option value not found")
	// ErrVariantNotFound is returned when no variant carries the combination key.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrVariantConflict is returned when another writer already inserted the combination.
	ErrVariantConflict = errors.New("variant combination already exists")
	// ErrDuplicate is returned when a unique code, handle or token is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrReferenceNotFound is returned when an option value links to a missing record.
	ErrReferenceNotFound = errors.New("referenced record not found")
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure
// from any of the drivers the service can run on.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
