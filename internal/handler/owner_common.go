package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/repository"
)

// OwnerHandler bundles the repositories owners need to manage branches,
// halls, session templates and manually created sessions.
type OwnerHandler struct {
	BranchRepo   *repository.BranchRepo
	HallRepo     *repository.HallRepo
	TemplateRepo *repository.TemplateRepo
	SessionRepo  *repository.SessionRepo
}

// NewOwnerHandler constructs an OwnerHandler and panics if any dependency
// is nil; handler wiring errors should fail at startup, not per request.
func NewOwnerHandler(branchRepo *repository.BranchRepo, hallRepo *repository.HallRepo, templateRepo *repository.TemplateRepo, sessionRepo *repository.SessionRepo) *OwnerHandler {
	if branchRepo == nil || hallRepo == nil || templateRepo == nil || sessionRepo == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		BranchRepo:   branchRepo,
		HallRepo:     hallRepo,
		TemplateRepo: templateRepo,
		SessionRepo:  sessionRepo,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWTAuth stores the raw claim value, which arrives as float64
// after JSON parsing but may be other numeric types in tests.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as a positive uint64.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}
