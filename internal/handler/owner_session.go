package handler

// Manual session creation. Most sessions are spawned by the materializer,
// but owners can also create one-off sessions (template_id stays NULL, so
// the (template, date) uniqueness rule never applies to them).

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/job"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

type sessionRequest struct {
	Title           string  `json:"title"`
	Date            string  `json:"date"`       // "2006-01-02"
	StartTime       string  `json:"start_time"` // "HH:MM:SS"
	DurationMin     uint32  `json:"duration_min"`
	PriceCents      uint32  `json:"price_cents"`
	MaxParticipants *uint32 `json:"max_participants"` // defaults to hall capacity
}

// CreateSession handles POST /v1/halls/:id/sessions.
func (h *OwnerHandler) CreateSession(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	ctx := c.Request().Context()
	hall, err := h.HallRepo.GetByID(ctx, hallID)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load hall"})
	}
	hallOwner, err := h.HallRepo.OwnerOf(ctx, hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not verify ownership"})
	}
	if hallOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and a positive duration_min are required"})
	}
	if _, err := time.Parse(job.DateLayout, req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if !validStartTime(req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM:SS"})
	}
	capacity := hall.Capacity
	if req.MaxParticipants != nil && *req.MaxParticipants > 0 {
		capacity = *req.MaxParticipants
	}

	s := model.Session{
		BranchID:        hall.BranchID,
		HallID:          hallID,
		Title:           req.Title,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMin:     req.DurationMin,
		PriceCents:      req.PriceCents,
		MaxParticipants: capacity,
	}
	if err := h.SessionRepo.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	return c.JSON(http.StatusCreated, s)
}
