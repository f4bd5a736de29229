// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// and the background jobs to distinguish between failure scenarios without
// inspecting driver-specific errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as cancelling a reservation that is already
// cancelled. Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// ErrDuplicateSession is returned by SessionRepo.Create when the unique
// index on (template_id, session_date) rejects the insert. The
// materializer swallows it as a benign skip: it means another pass won the
// race for the same (template, date) pair.
var ErrDuplicateSession = errors.New("duplicate session for template and date")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062, raised by unique index violations).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
