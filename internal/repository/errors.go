// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the payment service to distinguish between failure
// scenarios. ErrDuplicatePayment in particular is not a fault: it is the
// signal the confirmation paths rely on to detect that the other path
// already recorded the payment.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrProgrammeNotFound is returned when a programme lookup by ID yields
// no row.
var ErrProgrammeNotFound = errors.New("programme not found")

// ErrReservationNotFound is returned when a reservation lookup by ID
// yields no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDuplicatePayment is returned by PaymentRepo.Insert when a payment
// already exists for the reservation. The unique key on
// payments.reservation_id makes the check-and-insert atomic, so two
// concurrent confirmation paths cannot both create a row.
var ErrDuplicatePayment = errors.New("payment already exists for reservation")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062, raised on unique key violations).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
