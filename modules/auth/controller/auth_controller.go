package controller

import (
	"net/http"

	"eventra/core/controller"
	"eventra/core/errors"
	"eventra/core/middleware"
	"eventra/modules/auth/dto"
	"eventra/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	service service.AuthService
}

func NewAuthController(service service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// Register creates a new user account
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "registration data"
// @Success 201 {object} controller.SuccessResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}

	resp, err := c.service.Register(ctx.Request().Context(), &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.CreatedResponse(ctx, resp, "account created")
}

// Login authenticates a user and returns a JWT
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "credentials"
// @Success 200 {object} controller.SuccessResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "invalid request body", err))
	}

	resp, err := c.service.Login(ctx.Request().Context(), &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "logged in")
}

// GoogleConnect returns the Google consent URL for the current user
// @Summary Start Google Calendar connection
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} controller.SuccessResponse
// @Router /private/auth/google/connect [get]
func (c *AuthController) GoogleConnect(ctx echo.Context) error {
	userID, err := middleware.UserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, err := c.service.GoogleConnectURL(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, resp, "open the URL to grant access")
}

// GoogleCallback is the OAuth redirect endpoint registered with Google.
// GET /api/v1/auth/google/callback?state=...&code=...
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	state := ctx.QueryParam("state")
	code := ctx.QueryParam("code")
	if state == "" || code == "" {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "state and code are required", nil))
	}

	if err := c.service.HandleGoogleCallback(ctx.Request().Context(), state, code); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"message": "Google Calendar connected"})
}
