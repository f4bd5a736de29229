package handler

// Public browse endpoints. These return sanitized data for guests: active
// branches, their halls, and the bookable sessions of a hall over a date
// range. No authentication is applied; the rate limiter and response cache
// sit in front of these routes.

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/job"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// PublicHandler bundles the read-only repositories the browse routes use.
type PublicHandler struct {
	BranchRepo  *repository.BranchRepo
	HallRepo    *repository.HallRepo
	SessionRepo *repository.SessionRepo
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(branchRepo *repository.BranchRepo, hallRepo *repository.HallRepo, sessionRepo *repository.SessionRepo) *PublicHandler {
	if branchRepo == nil || hallRepo == nil || sessionRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{BranchRepo: branchRepo, HallRepo: hallRepo, SessionRepo: sessionRepo}
}

// publicSession strips a session down to what guests may see.
func publicSession(s model.Session) echo.Map {
	free := uint32(0)
	if s.MaxParticipants > s.CurrentParticipants {
		free = s.MaxParticipants - s.CurrentParticipants
	}
	return echo.Map{
		"id":           s.ID,
		"branch_id":    s.BranchID,
		"hall_id":      s.HallID,
		"title":        s.Title,
		"date":         s.Date,
		"start_time":   s.StartTime,
		"duration_min": s.DurationMin,
		"price_cents":  s.PriceCents,
		"capacity":     s.MaxParticipants,
		"free_places":  free,
	}
}

// ListBranches handles GET /v1/public/branches.
func (h *PublicHandler) ListBranches(c echo.Context) error {
	branches, err := h.BranchRepo.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list branches"})
	}
	out := make([]echo.Map, 0, len(branches))
	for _, b := range branches {
		out = append(out, echo.Map{"id": b.ID, "name": b.Name, "address": b.Address, "phone": b.Phone})
	}
	return c.JSON(http.StatusOK, out)
}

// ListHallsByBranch handles GET /v1/public/branches/:id/halls.
func (h *PublicHandler) ListHallsByBranch(c echo.Context) error {
	branchID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	ctx := c.Request().Context()
	if _, err := h.BranchRepo.GetByID(ctx, branchID); err != nil {
		if errors.Is(err, repository.ErrBranchNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "branch not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load branch"})
	}
	halls, err := h.HallRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list halls"})
	}
	out := make([]echo.Map, 0, len(halls))
	for _, hall := range halls {
		if !hall.IsActive {
			continue
		}
		out = append(out, echo.Map{"id": hall.ID, "name": hall.Name, "description": hall.Description, "capacity": hall.Capacity})
	}
	return c.JSON(http.StatusOK, out)
}

// ListSessionsByHall handles GET /v1/public/halls/:id/sessions?from=&to=.
// Without query parameters it shows the next 30 days.
func (h *PublicHandler) ListSessionsByHall(c echo.Context) error {
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" {
		from = time.Now().UTC().Format(job.DateLayout)
	}
	if to == "" {
		t, _ := time.Parse(job.DateLayout, from)
		to = t.AddDate(0, 0, 29).Format(job.DateLayout)
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(job.DateLayout, d); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from/to must be YYYY-MM-DD"})
		}
	}

	ctx := c.Request().Context()
	if _, err := h.HallRepo.GetByID(ctx, hallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load hall"})
	}
	sessions, err := h.SessionRepo.ListByHallAndRange(ctx, hallID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list sessions"})
	}
	out := make([]echo.Map, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, publicSession(s))
	}
	return c.JSON(http.StatusOK, out)
}

// GetSession handles GET /v1/public/sessions/:id.
func (h *PublicHandler) GetSession(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	s, err := h.SessionRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load session"})
	}
	return c.JSON(http.StatusOK, publicSession(*s))
}
