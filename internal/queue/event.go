// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation is successfully
// created. It carries enough information for downstream consumers to log,
// notify or trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID  uint64 `json:"reservation_id"`
	Code           string `json:"code"`
	UserID         uint64 `json:"user_id"`
	SessionID      uint64 `json:"session_id"`
	SessionTitle   string `json:"session_title"`
	BranchID       uint64 `json:"branch_id"`
	HallID         uint64 `json:"hall_id"`
	SessionDate    string `json:"session_date"`
	StartTime      string `json:"start_time"`
	NumberOfPeople uint32 `json:"number_of_people"`
	PriceCents     uint32 `json:"price_cents"`
	ConfirmedAt    string `json:"confirmed_at"`
}
