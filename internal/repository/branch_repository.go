package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrBranchNotFound is returned when a branch lookup fails.
var ErrBranchNotFound = errors.New("branch not found")

// BranchRepo provides methods to create and retrieve branches.
type BranchRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewBranchRepo constructs a BranchRepo with the given DB handle.
func NewBranchRepo(db *sql.DB) *BranchRepo {
	return &BranchRepo{db: db}
}

const branchCols = `id, owner_id, name, address, phone, is_active, created_at, updated_at`

func scanBranch(row interface{ Scan(...any) error }) (model.Branch, error) {
	var (
		b       model.Branch
		address sql.NullString
		phone   sql.NullString
	)
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &address, &phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Branch{}, err
	}
	if address.Valid {
		v := address.String
		b.Address = &v
	}
	if phone.Valid {
		v := phone.String
		b.Phone = &v
	}
	return b, nil
}

// Create inserts a new branch. The branch must have OwnerID and Name set.
// After the insert the row is read back so is_active and the timestamps
// carry their DB defaults.
func (r *BranchRepo) Create(ctx context.Context, b *model.Branch) error {
	const q = `INSERT INTO branches (owner_id, name, address, phone) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.OwnerID, b.Name, b.Address, b.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + branchCols + ` FROM branches WHERE id = ?`
	got, err := scanBranch(r.db.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = got
	return nil
}

// GetByID retrieves a branch by ID, returning ErrBranchNotFound on a miss.
func (r *BranchRepo) GetByID(ctx context.Context, id uint64) (*model.Branch, error) {
	const q = `SELECT ` + branchCols + ` FROM branches WHERE id = ?`
	b, err := scanBranch(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByOwner returns all branches belonging to a user, ordered by id.
func (r *BranchRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Branch, error) {
	const q = `SELECT ` + branchCols + ` FROM branches WHERE owner_id = ? ORDER BY id ASC`
	return r.queryList(ctx, q, ownerID)
}

// ListActive returns all active branches for the public browse endpoints.
func (r *BranchRepo) ListActive(ctx context.Context) ([]model.Branch, error) {
	const q = `SELECT ` + branchCols + ` FROM branches WHERE is_active = 1 ORDER BY id ASC`
	return r.queryList(ctx, q)
}

// UpdateByIDAndOwner updates a branch's mutable fields when it belongs to
// the given owner. Returns ErrBranchNotFound when the row does not exist
// and ErrForbidden when it is owned by someone else.
func (r *BranchRepo) UpdateByIDAndOwner(ctx context.Context, b *model.Branch, ownerID uint64) error {
	var dbOwner uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM branches WHERE id = ?`, b.ID).Scan(&dbOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBranchNotFound
		}
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE branches SET name = ?, address = ?, phone = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, b.Name, b.Address, b.Phone, b.IsActive, b.ID)
	return err
}

func (r *BranchRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Branch, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
