package handler

// Customer booking endpoints. Creating and cancelling a reservation runs
// in a transaction that locks the session row: the capacity check, the
// reservation write and the participant-cache bump commit together. The
// cache bump is a best-effort fast path; the reconciler remains the
// authority and periodically verifies it against the ledger.

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
	queue_publisher "github.com/iliyamo/venue-booking/internal/service"
)

// CustomerHandler groups the repositories the booking endpoints need. The
// SessionRepo's DB handle is used for starting transactions.
type CustomerHandler struct {
	SessionRepo     *repository.SessionRepo
	ReservationRepo *repository.ReservationRepo
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(sessionRepo *repository.SessionRepo, reservationRepo *repository.ReservationRepo) *CustomerHandler {
	if sessionRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{SessionRepo: sessionRepo, ReservationRepo: reservationRepo}
}

type reservationRequest struct {
	NumberOfPeople uint32 `json:"number_of_people"`
}

// fitsCapacity reports whether adding the requested head count keeps the
// session within capacity. The sum is computed in uint64 so an absurdly
// large request cannot wrap uint32 arithmetic past the check.
func fitsCapacity(current, capacity, requested uint32) bool {
	return uint64(current)+uint64(requested) <= uint64(capacity)
}

// CreateReservation handles POST /v1/sessions/:id/reservations.
func (h *CustomerHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req reservationRequest
	if err := c.Bind(&req); err != nil || req.NumberOfPeople == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number_of_people must be positive"})
	}

	ctx := c.Request().Context()
	tx, err := h.SessionRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start booking"})
	}
	defer func() { _ = tx.Rollback() }()

	s, err := h.SessionRepo.GetByIDForUpdateTx(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load session"})
	}
	if !fitsCapacity(s.CurrentParticipants, s.MaxParticipants, req.NumberOfPeople) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough free places"})
	}

	res := model.Reservation{
		SessionID:      sessionID,
		UserID:         userID,
		Code:           uuid.NewString(),
		NumberOfPeople: req.NumberOfPeople,
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
	}
	if err := h.SessionRepo.AddParticipantsTx(ctx, tx, sessionID, int64(req.NumberOfPeople)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update session"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not confirm reservation"})
	}

	// Best effort: a broker outage must not fail a committed booking.
	_ = queue_publisher.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
		ReservationID:  res.ID,
		Code:           res.Code,
		UserID:         userID,
		SessionID:      s.ID,
		SessionTitle:   s.Title,
		BranchID:       s.BranchID,
		HallID:         s.HallID,
		SessionDate:    s.Date,
		StartTime:      s.StartTime,
		NumberOfPeople: res.NumberOfPeople,
		PriceCents:     s.PriceCents,
		ConfirmedAt:    time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	return c.JSON(http.StatusCreated, res)
}

// CancelReservation handles DELETE /v1/reservations/:id. Only the owning
// customer may cancel, and only once; the participant cache is decremented
// in the same transaction.
func (h *CustomerHandler) CancelReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	tx, err := h.SessionRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start cancellation"})
	}
	defer func() { _ = tx.Rollback() }()

	res, err := h.ReservationRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load reservation"})
	}
	if res.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if res.CancelledAt != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
	}
	if err := h.ReservationRepo.CancelTx(ctx, tx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel reservation"})
	}
	if err := h.SessionRepo.AddParticipantsTx(ctx, tx, res.SessionID, -int64(res.NumberOfPeople)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update session"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not confirm cancellation"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyReservations handles GET /v1/reservations.
func (h *CustomerHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reservations, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list reservations"})
	}
	if reservations == nil {
		reservations = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, reservations)
}
