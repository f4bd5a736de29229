package model

// Session is one concrete, bookable time slot in a hall.  Sessions are
// created either by the materializer (TemplateID set) or manually by an
// owner (TemplateID nil).  CurrentParticipants is a denormalized cache of
// the active reservation head count; the booking flow keeps it up to date
// as a fast path and the reconciler is the corrective authority.
//
// At most one session exists per (template, date) pair; the sessions table
// enforces this with a unique index so concurrent materialization passes
// cannot double-insert.
type Session struct {
	ID                  uint64  // sessions.id
	BranchID            uint64  // sessions.branch_id
	HallID              uint64  // sessions.hall_id
	TemplateID          *uint64 // sessions.template_id (nil for manual sessions)
	Title               string  // sessions.title
	Date                string  // sessions.session_date ("2006-01-02")
	StartTime           string  // sessions.start_time ("15:04:05")
	DurationMin         uint32  // sessions.duration_min
	PriceCents          uint32  // sessions.price_cents
	MaxParticipants     uint32  // sessions.max_participants
	CurrentParticipants uint32  // sessions.current_participants (cached)
	CreatedAt           string  // sessions.created_at
	UpdatedAt           string  // sessions.updated_at
}
