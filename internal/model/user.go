package model

// User mirrors the 'users' table.  Role is either OWNER (manages branches,
// halls and templates) or CUSTOMER (books sessions).
type User struct {
	ID           uint64 // users.id
	Email        string // users.email (stored lower-cased)
	PasswordHash string // users.password_hash (bcrypt)
	Role         string // users.role (OWNER, CUSTOMER)
	IsActive     bool   // users.is_active
	CreatedAt    string // users.created_at
	UpdatedAt    string // users.updated_at
}
