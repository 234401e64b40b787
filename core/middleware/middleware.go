package middleware

import (
	"net/http"
	"strings"

	"eventra/core/controller"
	"eventra/core/errors"
	"eventra/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const userIDContextKey = "user_id"

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the Bearer token and stores the user id on the
// request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized,
					controller.NewErrorResponse(errors.ErrMissingAuthorizationHeader, "Authorization header required"))
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				return c.JSON(http.StatusUnauthorized,
					controller.NewErrorResponse(errors.ErrInvalidTokenFormat, "Bearer token required"))
			}

			tokenData, err := utils.ValidateAndParseToken(tokenString)
			if err != nil {
				code, msg := errors.ErrUnauthorized, "invalid token"
				if appErr, ok := err.(*errors.AppError); ok {
					code = appErr.Code
					if appErr.Message != "" {
						msg = appErr.Message
					}
				}
				return c.JSON(http.StatusUnauthorized, controller.NewErrorResponse(code, msg))
			}

			c.Set(userIDContextKey, tokenData.UserID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id stored by AuthMiddleware.
func UserID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(userIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "no authenticated user", nil)
	}
	return id, nil
}
