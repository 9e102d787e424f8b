package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/modernmember/member-directory/internal/core/ports"
)

const defaultAuditLimit = 50

// AuditHandler exposes the per-member security audit trail.
type AuditHandler struct {
	repo ports.AuditRepository
}

func NewAuditHandler(repo ports.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// BySubject returns the most recent audit events for a member.
//
// @Summary      List a member's audit events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Member id"
// @Param        limit  query     int     false  "Maximum events to return (default 50)"
// @Success      200    {array}   domain.AuditEvent
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /api/v1/members/{id}/audit [get]
func (h *AuditHandler) BySubject(c echo.Context) error {
	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	events, err := h.repo.FindBySubject(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
