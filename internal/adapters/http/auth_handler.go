package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/core/internal/infrastructure/logger"
	"github.com/taskhive/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RefreshRequest carries the refresh token to exchange
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Register handles POST /api/auth/register
// @Summary Register a new account
// @Tags Authentication
// @Param request body ports.RegisterRequest true "Account details"
// @Success 201 {object} AuthMessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, AuthMessageResponse{
		Message:      "Account created successfully",
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	})
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags Authentication
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} AuthMessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthMessageResponse{
		Message:      "Logged in successfully",
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	})
}

// Refresh handles POST /api/auth/refresh
// @Summary Exchange a refresh token for a new token pair
// @Tags Authentication
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AuthMessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	resp, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthMessageResponse{
		Message:      "Token refreshed",
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	})
}

// Me handles GET /api/auth/me
// @Summary Get the authenticated user
// @Tags Authentication
// @Security BearerAuth
// @Success 200 {object} entities.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID := ownerIDFromContext(c)

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	user.PasswordHash = ""
	return c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out and revoke the refresh token
// @Tags Authentication
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := ownerIDFromContext(c)

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}
