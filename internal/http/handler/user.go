package handler

import (
	"net/http"

	"project-service/internal/account"
	"project-service/internal/audit"
	"project-service/internal/auth"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users     UserDirectory
	registrar PrincipalRegistrar
	passwords PasswordChanger
	audit     *audit.Logger
}

func NewUserHandler(users UserDirectory, registrar PrincipalRegistrar, passwords PasswordChanger, auditLog *audit.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		registrar: registrar,
		passwords: passwords,
		audit:     auditLog,
	}
}

// Profile returns the stored account of the bound principal.
func (h *UserHandler) Profile(c echo.Context) error {
	p, err := auth.PrincipalFrom(c)
	if err != nil {
		return err
	}

	u, err := h.users.GetByID(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	u, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// Create lets an admin add an account with any role.
func (h *UserHandler) Create(c echo.Context) error {
	var req RegisterRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	role, err := parseOptionalRole(req.Role)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	p, err := h.registrar.RegisterPrincipal(ctx, account.RegisterInput{
		Identifier:  req.Email,
		Secret:      req.Password,
		DisplayName: req.Name,
		Role:        role,
	})
	if err != nil {
		h.audit.LogFromContext(c, audit.ActionCreateUser, audit.StatusFailure, 0, "", err)
		return registrationError(err)
	}
	h.audit.LogFromContext(c, audit.ActionCreateUser, audit.StatusSuccess, p.ID, "", nil)

	u, err := h.users.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	p, err := auth.PrincipalFrom(c)
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(p, id); err != nil {
		h.audit.LogFromContext(c, audit.ActionUpdateUser, audit.StatusDenied, id, "", nil)
		return err
	}

	var req UpdateUserRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	u, err := h.users.UpdateDisplayName(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	h.audit.LogFromContext(c, audit.ActionUpdateUser, audit.StatusSuccess, id, "", nil)
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.audit.LogFromContext(c, audit.ActionDeleteUser, audit.StatusSuccess, id, "", nil)
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword serves both the change-password route and its password alias.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	p, err := auth.PrincipalFrom(c)
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(p, id); err != nil {
		h.audit.LogFromContext(c, audit.ActionChangePassword, audit.StatusDenied, id, "", nil)
		return err
	}

	var req ChangePasswordRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	err = h.passwords.Change(c.Request().Context(), account.ChangePasswordInput{
		PrincipalID:   id,
		CurrentSecret: req.CurrentPassword,
		NewSecret:     req.NewPassword,
		ConfirmSecret: req.ConfirmPassword,
	})
	if err != nil {
		h.audit.LogFromContext(c, audit.ActionChangePassword, audit.StatusFailure, id, "", err)
		return err
	}

	h.audit.LogFromContext(c, audit.ActionChangePassword, audit.StatusSuccess, id, "", nil)
	return c.String(http.StatusOK, msgPasswordUpdated)
}
