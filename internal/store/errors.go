package store

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers lookups of users, areas, runs or artifacts that
	// do not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken reports a signup against an existing username.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrAreaExists reports a duplicate area name for one user.
	ErrAreaExists = errors.New("run area already exists")
	// ErrSubAreaExists reports a duplicate sub area name within an area.
	ErrSubAreaExists = errors.New("sub run area already exists")
	// ErrRunExists reports a second run on a date without allow_multiple.
	ErrRunExists = errors.New("a run is already logged on this date")
	// ErrMissingPolygon reports area creation without a boundary.
	ErrMissingPolygon = errors.New("no polygon provided")
	// ErrInvalidInput marks malformed payload fields such as dates,
	// durations or linestrings.
	ErrInvalidInput = errors.New("invalid input")
)

// isDuplicate recognises unique-constraint violations from both the gorm
// error translation layer and the raw postgres driver.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
