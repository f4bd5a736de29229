package handler

// Branch management endpoints. All routes here sit behind the OWNER role.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

type branchRequest struct {
	Name     string  `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

// CreateBranch handles POST /v1/branches.
func (h *OwnerHandler) CreateBranch(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req branchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	b := model.Branch{OwnerID: ownerID, Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := h.BranchRepo.Create(c.Request().Context(), &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create branch"})
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBranches handles GET /v1/branches, returning the caller's branches.
func (h *OwnerHandler) ListBranches(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	branches, err := h.BranchRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list branches"})
	}
	if branches == nil {
		branches = []model.Branch{}
	}
	return c.JSON(http.StatusOK, branches)
}

// UpdateBranch handles PUT /v1/branches/:id. Only the owning user may
// update; absent optional fields keep their stored values.
func (h *OwnerHandler) UpdateBranch(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	ctx := c.Request().Context()
	current, err := h.BranchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "branch not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load branch"})
	}
	var req branchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		current.Name = name
	}
	if req.Address != nil {
		current.Address = req.Address
	}
	if req.Phone != nil {
		current.Phone = req.Phone
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if err := h.BranchRepo.UpdateByIDAndOwner(ctx, current, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBranchNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "branch not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update branch"})
		}
	}
	return c.JSON(http.StatusOK, current)
}
