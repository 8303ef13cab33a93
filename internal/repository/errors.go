// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// directory service and the HTTP handlers to distinguish between different
// failure scenarios. ErrNotFound signals that an operation targeted an id
// that does not exist, ErrConstraintViolation that a required field is
// missing or a foreign key points nowhere, and ErrDataIntegrity that a
// stored reference resolved to a record that is gone.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a venue, artist or show does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConstraintViolation is returned when a write would break a schema
// rule: a missing required value, an oversized value or a dangling
// foreign key. Handlers should translate this into an HTTP 400 response.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrDataIntegrity is returned when a stored show references an artist or
// venue that no longer exists. Cascading deletes keep this from happening,
// so seeing it means the data was modified outside the application.
var ErrDataIntegrity = errors.New("data integrity error")

// MySQL server error numbers mapped to ErrConstraintViolation.
const (
	errBadNull          = 1048 // column cannot be null
	errNoDefault        = 1364 // field doesn't have a default value
	errDataTooLong      = 1406 // data too long for column
	errRowIsReferenced  = 1451 // cannot delete or update a parent row
	errNoReferencedRow  = 1452 // cannot add or update a child row
	errNoReferencedRow2 = 1216
)

// mapDBError converts driver errors that represent constraint failures
// into ErrConstraintViolation, keeping the driver message for context.
// Any other error is returned unchanged.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errBadNull, errNoDefault, errDataTooLong, errRowIsReferenced, errNoReferencedRow, errNoReferencedRow2:
			return fmt.Errorf("%w: %s", ErrConstraintViolation, me.Message)
		}
	}
	return err
}
