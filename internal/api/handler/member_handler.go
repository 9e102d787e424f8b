package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/modernmember/member-directory/internal/api/metrics"
	mw "github.com/modernmember/member-directory/internal/api/middleware"
	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
)

// MemberHandler handles HTTP requests for directory operations.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// List returns the directory visible to the caller: everything for admins,
// non-admin members for everyone else.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   memberResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.service.List(c.Request().Context(), mw.Principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponses(members))
}

// Get returns a single member by id.
//
// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member id"
// @Success      200  {object}  memberResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/members/{id} [get]
func (h *MemberHandler) Get(c echo.Context) error {
	member, err := h.service.Get(c.Request().Context(), mw.Principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// Me returns the caller's own profile.
//
// @Summary      Get own profile
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  memberResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/members/me [get]
func (h *MemberHandler) Me(c echo.Context) error {
	p := mw.Principal(c)
	member, err := h.service.Get(c.Request().Context(), p, p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// Update modifies a member's profile, optionally including a role change.
//
// @Summary      Update a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Member id"
// @Param        body  body      updateMemberRequest  true  "Updated profile"
// @Success      200   {object}  memberResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/members/{id} [put]
func (h *MemberHandler) Update(c echo.Context) error {
	var req updateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.service.Update(c.Request().Context(), mw.Principal(c), c.Param("id"), ports.UpdateMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLastAdmin) {
			metrics.LastAdminRejectionsTotal.Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// Delete removes a member.
//
// @Summary      Delete a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/members/{id} [delete]
func (h *MemberHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), mw.Principal(c), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrLastAdmin) {
			metrics.LastAdminRejectionsTotal.Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "member deleted successfully"})
}

// UpdateRole assigns a role via the dedicated administrative action. The
// target's sessions are always invalidated, even when the role is unchanged.
//
// @Summary      Assign a member's role
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Member id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/members/{id}/role [put]
func (h *MemberHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.UpdateRole(c.Request().Context(), mw.Principal(c), c.Param("id"), req.Role); err != nil {
		if errors.Is(err, domain.ErrLastAdmin) {
			metrics.LastAdminRejectionsTotal.Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "role updated and sessions invalidated"})
}

// ChangePassword rotates the caller's own credential.
//
// @Summary      Change own password
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Member id"
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/members/{id}/password [put]
func (h *MemberHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangePassword(c.Request().Context(), mw.Principal(c), c.Param("id"), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed successfully"})
}
