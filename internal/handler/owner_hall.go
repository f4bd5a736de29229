package handler

// Hall management endpoints, scoped to branches the caller owns.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

type hallRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Capacity    uint32  `json:"capacity"`
	IsActive    *bool   `json:"is_active"`
}

// CreateHall handles POST /v1/branches/:id/halls.
func (h *OwnerHandler) CreateHall(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	branchID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	ctx := c.Request().Context()
	branch, err := h.BranchRepo.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "branch not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load branch"})
	}
	if branch.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req hallRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive capacity are required"})
	}
	hall := model.Hall{BranchID: branchID, Name: req.Name, Description: req.Description, Capacity: req.Capacity}
	if err := h.HallRepo.Create(ctx, &hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hall"})
	}
	return c.JSON(http.StatusCreated, hall)
}

// ListHalls handles GET /v1/branches/:id/halls for the owning user.
func (h *OwnerHandler) ListHalls(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	branchID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	ctx := c.Request().Context()
	branch, err := h.BranchRepo.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "branch not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load branch"})
	}
	if branch.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	halls, err := h.HallRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list halls"})
	}
	if halls == nil {
		halls = []model.Hall{}
	}
	return c.JSON(http.StatusOK, halls)
}

// UpdateHall handles PUT /v1/halls/:id.
func (h *OwnerHandler) UpdateHall(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	ctx := c.Request().Context()
	current, err := h.HallRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load hall"})
	}
	var req hallRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		current.Name = name
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Capacity != 0 {
		current.Capacity = req.Capacity
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if err := h.HallRepo.UpdateByIDAndOwner(ctx, current, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update hall"})
		}
	}
	return c.JSON(http.StatusOK, current)
}
