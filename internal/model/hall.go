package model

// Hall is an individual bookable room within a branch.  Each hall has a
// default capacity that templates inherit unless they override it.
//
// Fields:
//  ID          – primary key identifier.
//  BranchID    – containing branch.
//  Name        – unique hall name per branch.
//  Description – optional description of the hall.
//  Capacity    – default maximum head count.
//  IsActive    – whether the hall can host sessions.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hall struct {
	ID          uint64  // halls.id
	BranchID    uint64  // halls.branch_id
	Name        string  // halls.name
	Description *string // halls.description (nullable)
	Capacity    uint32  // halls.capacity
	IsActive    bool    // halls.is_active
	CreatedAt   string  // halls.created_at
	UpdatedAt   string  // halls.updated_at
}
