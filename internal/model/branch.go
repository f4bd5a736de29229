package model

// Branch represents a physical venue location owned by a user.  Halls
// belong to branches; sessions and templates reference their branch
// transitively through the hall.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the branch owner.
//  Name      – unique branch name per owner.
//  Address   – optional street address.
//  Phone     – optional contact number.
//  IsActive  – whether the branch is open for booking.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Branch struct {
	ID        uint64  // branches.id
	OwnerID   uint64  // branches.owner_id
	Name      string  // branches.name
	Address   *string // branches.address (nullable)
	Phone     *string // branches.phone (nullable)
	IsActive  bool    // branches.is_active
	CreatedAt string  // branches.created_at
	UpdatedAt string  // branches.updated_at
}
