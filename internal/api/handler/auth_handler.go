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

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a member and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Handle, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:             result.Token,
		Type:              "Bearer",
		ID:                result.ID,
		Handle:            result.Handle,
		Email:             result.Email,
		Role:              string(result.Role),
		PasswordTemporary: result.PasswordTemporary,
	})
}

// Register creates a new member account. The role field is honored only when
// the request carries an administrator token; everyone else registers as USER.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Member registration details"
// @Success      201   {object}  memberResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.authService.Register(c.Request().Context(), mw.Principal(c), ports.RegisterInput{
		Handle: req.Handle,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   req.Role,
	})
	if err != nil {
		return err
	}

	metrics.MembersRegisteredTotal.WithLabelValues(string(member.Role)).Inc()
	return c.JSON(http.StatusCreated, toMemberResponse(member))
}
