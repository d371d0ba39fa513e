package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank/internal/platform/apperr"
	"github.com/bloodbank/bloodbank/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the auth endpoints. Register and login are public;
// profile requires a bearer token.
func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)

	authed.GET("/auth/profile", h.Profile)
	authed.PUT("/auth/profile", h.UpdateProfile)
}

type authResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    *Account `json:"user"`
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// Admin accounts are only created through the CLI bootstrap command.
	if in.Role == RoleAdmin {
		return apperr.Forbidden("admin accounts cannot be self-registered")
	}
	a, token, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Success: true, Token: token, User: a})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, token, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, Token: token, User: a})
}

func (h *Handler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	a, err := h.svc.Profile(ctx, auth.AccountIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var upd ProfileUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	a, err := h.svc.UpdateProfile(ctx, auth.AccountIDFromContext(ctx), upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
