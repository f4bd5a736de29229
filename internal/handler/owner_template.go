package handler

// Session template management endpoints. Templates are the recurrence
// definitions the materializer expands; owners create them under their own
// halls and can deactivate them at any time. Deactivation only stops
// future materialization; sessions already spawned stay in place.

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

type templateRequest struct {
	Title           string  `json:"title"`
	RecurrenceKind  string  `json:"recurrence_kind"` // WEEKLY or MONTHLY
	DaysOfWeek      []int   `json:"days_of_week"`    // WEEKLY: 0=Sunday .. 6=Saturday
	DayOfMonth      int     `json:"day_of_month"`    // MONTHLY: 1..31
	StartTime       string  `json:"start_time"`      // "HH:MM:SS"
	DurationMin     uint32  `json:"duration_min"`
	PriceCents      uint32  `json:"price_cents"`
	MaxParticipants *uint32 `json:"max_participants"` // defaults to hall capacity
	IsActive        *bool   `json:"is_active"`
}

// rule validates the recurrence fields of a request and builds the tagged
// rule variant.
func (req *templateRequest) rule() (model.RecurrenceRule, error) {
	switch model.RecurrenceKind(strings.ToUpper(strings.TrimSpace(req.RecurrenceKind))) {
	case model.RecurrenceWeekly:
		if len(req.DaysOfWeek) == 0 {
			return model.RecurrenceRule{}, errors.New("days_of_week is required for WEEKLY templates")
		}
		seen := map[int]bool{}
		var days []time.Weekday
		for _, d := range req.DaysOfWeek {
			if d < 0 || d > 6 {
				return model.RecurrenceRule{}, errors.New("days_of_week entries must be 0..6")
			}
			if !seen[d] {
				seen[d] = true
				days = append(days, time.Weekday(d))
			}
		}
		return model.RecurrenceRule{Kind: model.RecurrenceWeekly, DaysOfWeek: days}, nil
	case model.RecurrenceMonthly:
		if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
			return model.RecurrenceRule{}, errors.New("day_of_month must be 1..31 for MONTHLY templates")
		}
		return model.RecurrenceRule{Kind: model.RecurrenceMonthly, DayOfMonth: req.DayOfMonth}, nil
	default:
		return model.RecurrenceRule{}, errors.New("recurrence_kind must be WEEKLY or MONTHLY")
	}
}

// validStartTime checks the "HH:MM:SS" clock format.
func validStartTime(s string) bool {
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

// CreateTemplate handles POST /v1/halls/:id/templates.
func (h *OwnerHandler) CreateTemplate(c echo.Context) error {
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

	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and a positive duration_min are required"})
	}
	if !validStartTime(req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM:SS"})
	}
	rule, err := req.rule()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	capacity := hall.Capacity
	if req.MaxParticipants != nil && *req.MaxParticipants > 0 {
		capacity = *req.MaxParticipants
	}

	t := model.SessionTemplate{
		HallID:          hallID,
		Title:           req.Title,
		Rule:            rule,
		StartTime:       req.StartTime,
		DurationMin:     req.DurationMin,
		PriceCents:      req.PriceCents,
		MaxParticipants: capacity,
	}
	if err := h.TemplateRepo.Create(ctx, &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create template"})
	}
	return c.JSON(http.StatusCreated, templateResponse(t))
}

// ListTemplates handles GET /v1/halls/:id/templates for the owning user.
func (h *OwnerHandler) ListTemplates(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	ctx := c.Request().Context()
	hallOwner, err := h.HallRepo.OwnerOf(ctx, hallID)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not verify ownership"})
	}
	if hallOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	templates, err := h.TemplateRepo.ListByHall(ctx, hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list templates"})
	}
	out := make([]echo.Map, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateTemplate handles PUT /v1/templates/:id. Owners use it to edit the
// recurrence and to flip is_active.
func (h *OwnerHandler) UpdateTemplate(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	ctx := c.Request().Context()
	current, err := h.TemplateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load template"})
	}
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		current.Title = title
	}
	if req.RecurrenceKind != "" {
		rule, err := req.rule()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		current.Rule = rule
	}
	if req.StartTime != "" {
		if !validStartTime(req.StartTime) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM:SS"})
		}
		current.StartTime = req.StartTime
	}
	if req.DurationMin != 0 {
		current.DurationMin = req.DurationMin
	}
	if req.PriceCents != 0 {
		current.PriceCents = req.PriceCents
	}
	if req.MaxParticipants != nil && *req.MaxParticipants > 0 {
		current.MaxParticipants = *req.MaxParticipants
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if err := h.TemplateRepo.UpdateByIDAndOwner(ctx, current, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrTemplateNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update template"})
		}
	}
	return c.JSON(http.StatusOK, templateResponse(*current))
}

// DeleteTemplate handles DELETE /v1/templates/:id.
func (h *OwnerHandler) DeleteTemplate(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	if err := h.TemplateRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrTemplateNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete template"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// templateResponse flattens a template for JSON output, rendering the
// recurrence rule in the same shape the request accepts.
func templateResponse(t model.SessionTemplate) echo.Map {
	days := make([]int, 0, len(t.Rule.DaysOfWeek))
	for _, d := range t.Rule.DaysOfWeek {
		days = append(days, int(d))
	}
	return echo.Map{
		"id":               t.ID,
		"hall_id":          t.HallID,
		"branch_id":        t.BranchID,
		"title":            t.Title,
		"recurrence_kind":  t.Rule.Kind,
		"days_of_week":     days,
		"day_of_month":     t.Rule.DayOfMonth,
		"start_time":       t.StartTime,
		"duration_min":     t.DurationMin,
		"price_cents":      t.PriceCents,
		"max_participants": t.MaxParticipants,
		"is_active":        t.IsActive,
		"created_at":       t.CreatedAt,
		"updated_at":       t.UpdatedAt,
	}
}
