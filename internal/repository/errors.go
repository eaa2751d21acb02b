package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gitlab.com/dirk.krummacker/personal-contacts/internal/validation"
)

var (
	// ErrNotFound is returned when no contact with the given id belongs to the owner. A contact of
	// another owner is reported the same way as a missing one.
	ErrNotFound = errors.New("contact not found")

	// ErrStoreUnavailable wraps failures to reach or query the database.
	ErrStoreUnavailable = errors.New("contact store unavailable")

	// ErrConstraintViolation wraps uniqueness and foreign key violations on write.
	ErrConstraintViolation = errors.New("constraint violation")
)

// MySQL server error numbers that are reported as ErrConstraintViolation.
const (
	mysqlDuplicateEntry    = 1062
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlNoReferencedRowV1 = 1216
)

// ValidationError is returned when input violates field constraints. No database access has
// happened when it is returned.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// invalid builds a ValidationError for a single field.
func invalid(field string, message string) *ValidationError {
	return &ValidationError{Fields: []validation.FieldError{{Field: field, Message: message}}}
}

// storeError classifies a database error and adds the name of the failed operation.
func storeError(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry, mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlNoReferencedRowV1:
			return fmt.Errorf("%s: %w: %w", op, ErrConstraintViolation, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
