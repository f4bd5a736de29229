package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// HallRepo provides methods to create and retrieve halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallCols = `id, branch_id, name, description, capacity, is_active, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }) (model.Hall, error) {
	var (
		h    model.Hall
		desc sql.NullString
	)
	err := row.Scan(&h.ID, &h.BranchID, &h.Name, &desc, &h.Capacity, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return model.Hall{}, err
	}
	if desc.Valid {
		v := desc.String
		h.Description = &v
	}
	return h, nil
}

// Create inserts a new hall under a branch and reads the row back to
// populate DB defaults.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (branch_id, name, description, capacity) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.BranchID, h.Name, h.Description, h.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	const sel = `SELECT ` + hallCols + ` FROM halls WHERE id = ?`
	got, err := scanHall(r.db.QueryRowContext(ctx, sel, h.ID))
	if err != nil {
		return err
	}
	*h = got
	return nil
}

// GetByID retrieves a hall by ID, returning ErrHallNotFound on a miss.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT ` + hallCols + ` FROM halls WHERE id = ?`
	h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// OwnerOf returns the owner of the branch containing the hall. It is the
// ownership check shared by the hall, template and manual-session
// endpoints. Returns ErrHallNotFound when the hall does not exist.
func (r *HallRepo) OwnerOf(ctx context.Context, hallID uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT b.owner_id FROM halls h JOIN branches b ON b.id = h.branch_id WHERE h.id = ?`,
		hallID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrHallNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

// ListByBranch returns all halls of a branch ordered by id ascending.
func (r *HallRepo) ListByBranch(ctx context.Context, branchID uint64) ([]model.Hall, error) {
	const q = `SELECT ` + hallCols + ` FROM halls WHERE branch_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Hall
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateByIDAndOwner updates a hall's mutable fields when its branch is
// owned by the given user. Returns ErrHallNotFound or ErrForbidden.
func (r *HallRepo) UpdateByIDAndOwner(ctx context.Context, h *model.Hall, ownerID uint64) error {
	dbOwner, err := r.OwnerOf(ctx, h.ID)
	if err != nil {
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE halls SET name = ?, description = ?, capacity = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, h.Name, h.Description, h.Capacity, h.IsActive, h.ID)
	return err
}
