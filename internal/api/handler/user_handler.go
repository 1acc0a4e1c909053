package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/youcode/ebanking-api/internal/api/metrics"
	"github.com/youcode/ebanking-api/internal/core/domain"
	"github.com/youcode/ebanking-api/internal/core/ports"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	users ports.UserService
	audit ports.AuditService
}

func NewUserHandler(users ports.UserService, audit ports.AuditService) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload", Status: http.StatusBadRequest})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(c, err)
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload", Status: http.StatusBadRequest})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}

	token, user, err := h.users.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return fail(c, err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Message: "login successful for user: " + user.Username,
		Token:   token,
		User:    *toUserResponse(user),
	})
}

// ChangePassword replaces the authenticated caller's password.
//
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/changePassword [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload", Status: http.StatusBadRequest})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}

	if err := h.users.ChangePassword(c.Request().Context(), username, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}

	metrics.PasswordChangesTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed successfully"})
}

// UpdateRole assigns a new role to a user. Admin only.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string             true  "Username"
// @Param        body      body      updateRoleRequest  true  "New role name"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/users/{username}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload", Status: http.StatusBadRequest})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}

	user, err := h.users.ChangeRole(c.Request().Context(), c.Param("username"), req.RoleName)
	if err != nil {
		return fail(c, err)
	}

	metrics.RoleChangesTotal.WithLabelValues(req.RoleName).Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns all user accounts. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  userResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, *toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns one user account by username. Admin only.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), c.Param("username"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user account. Admin only.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.DeleteUser(c.Request().Context(), c.Param("username")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Audit returns a user's most recent audit events, newest first. Admin only.
//
// @Summary      List a user's audit trail
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path     string  true  "Username"
// @Success      200       {array}  auditEventResponse
// @Router       /api/users/{username}/audit [get]
func (h *UserHandler) Audit(c echo.Context) error {
	events, err := h.audit.RecentByActor(c.Request().Context(), c.Param("username"), 0)
	if err != nil {
		return fail(c, err)
	}

	resp := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, auditEventResponse{
			Actor:     e.Actor,
			Action:    e.Action,
			Detail:    e.Detail,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func toUserResponse(user *ports.UserResult) *userResponse {
	return &userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     roleResponse{Name: user.Role.Name},
		Enabled:  user.Enabled,
	}
}

func loginResult(err error) string {
	switch err {
	case domain.ErrUserDisabled:
		return "disabled"
	case domain.ErrTooManyAttempts:
		return "throttled"
	default:
		return "invalid_credentials"
	}
}
