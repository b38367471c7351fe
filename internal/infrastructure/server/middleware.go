package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/taskhive/core/internal/adapters/http"
	"github.com/taskhive/core/internal/application/services"
	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/infrastructure/logger"
)

// authMiddleware validates JWT bearer tokens and stores the caller's
// identity in the request context.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user", claims.UserID)
			c.Set("user_email", claims.Email)

			return next(c)
		}
	}
}

// errorHandler maps domain errors onto the HTTP taxonomy: validation
// failures to 400 with per-field messages, missing or cross-owner records to
// 404, auth failures to 401, everything else to a generic 500 whose details
// stay in the server log.
func errorHandler(appLogger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			payload httpHandlers.ErrorResponse
		)

		var verr *entities.ValidationError
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &verr):
			status = http.StatusBadRequest
			payload = httpHandlers.ErrorResponse{Message: "Validation failed", Errors: verr.Fields}

		case errors.Is(err, entities.ErrTaskNotFound):
			status = http.StatusNotFound
			payload = httpHandlers.ErrorResponse{Message: "Task not found"}

		case errors.Is(err, entities.ErrUserNotFound):
			status = http.StatusNotFound
			payload = httpHandlers.ErrorResponse{Message: "User not found"}

		case errors.Is(err, entities.ErrEmailTaken):
			status = http.StatusConflict
			payload = httpHandlers.ErrorResponse{Message: "Email already registered"}

		case errors.Is(err, entities.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			payload = httpHandlers.ErrorResponse{Message: "Invalid credentials"}

		case errors.Is(err, entities.ErrInvalidToken):
			status = http.StatusUnauthorized
			payload = httpHandlers.ErrorResponse{Message: "Invalid token"}

		case errors.As(err, &httpErr):
			status = httpErr.Code
			payload = httpHandlers.ErrorResponse{Message: messageString(httpErr.Message)}

		default:
			status = http.StatusInternalServerError
			payload = httpHandlers.ErrorResponse{Message: "Server error"}
			appLogger.Errorw("Unhandled error",
				"error", err.Error(),
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}

		_ = c.JSON(status, payload)
	}
}

func messageString(message interface{}) string {
	if s, ok := message.(string); ok {
		return s
	}
	return http.StatusText(http.StatusInternalServerError)
}
