package model

// Reservation records a customer's booking for a session.  NumberOfPeople
// is the head count the booking occupies.  CancelledAt is nil while the
// reservation is active; only active reservations count toward a session's
// occupancy.  Code is an opaque reference handed to the customer.
type Reservation struct {
	ID             uint64  // reservations.id
	SessionID      uint64  // reservations.session_id
	UserID         uint64  // reservations.user_id
	Code           string  // reservations.code (UUID)
	NumberOfPeople uint32  // reservations.number_of_people
	CancelledAt    *string // reservations.cancelled_at (nullable, UTC)
	CreatedAt      string  // reservations.created_at
}
