package handler

// On-demand triggers for the two batch jobs. The scheduler runs them on
// intervals; these endpoints let an operator run a pass immediately, e.g.
// after editing templates or repairing reservation data. Both jobs are
// idempotent so overlapping with a scheduled run is harmless.

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/job"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// JobHandler exposes the materializer and reconciler over HTTP.
type JobHandler struct {
	Materializer *job.Materializer
	Reconciler   *job.Reconciler
}

// NewJobHandler constructs a JobHandler.
func NewJobHandler(m *job.Materializer, r *job.Reconciler) *JobHandler {
	if m == nil || r == nil {
		panic("nil job passed to NewJobHandler")
	}
	return &JobHandler{Materializer: m, Reconciler: r}
}

type materializeRequest struct {
	StartDate string `json:"start_date"` // "2006-01-02"
	EndDate   string `json:"end_date"`   // "2006-01-02", inclusive
}

// Materialize handles POST /v1/admin/jobs/materialize. The body names a
// closed date range; the response is the pass summary. An inverted range
// is a 400 and creates nothing.
func (h *JobHandler) Materialize(c echo.Context) error {
	var req materializeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := time.Parse(job.DateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse(job.DateLayout, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}

	res, err := h.Materializer.Materialize(c.Request().Context(), start, end)
	if err != nil {
		if errors.Is(err, job.ErrInvalidRange) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must not be after end_date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "materialization failed"})
	}
	return c.JSON(http.StatusOK, res)
}

type reconcileRequest struct {
	SessionID *uint64 `json:"session_id"` // nil reconciles every session
}

// Reconcile handles POST /v1/admin/jobs/reconcile. With a session_id the
// pass targets that session only; without one it sweeps the whole store.
func (h *JobHandler) Reconcile(c echo.Context) error {
	var req reconcileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	var (
		res *job.ReconcileResult
		err error
	)
	if req.SessionID != nil {
		res, err = h.Reconciler.ReconcileSession(ctx, *req.SessionID)
	} else {
		res, err = h.Reconciler.ReconcileAll(ctx)
	}
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconciliation failed"})
	}
	return c.JSON(http.StatusOK, res)
}
