package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/middleware"
	"github.com/suteetoe/quoteflow/pkg/logger"
)

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	log := logger.FromEcho(c)

	var req signupRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse signup request", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	res, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Signup failed")
	}

	return c.JSON(http.StatusCreated, res)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	res, err := h.auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Login failed")
	}

	return c.JSON(http.StatusOK, res)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	merchant, err := h.auth.Profile(c.Request().Context(), middleware.MerchantID(c))
	if err != nil {
		return respondError(c, err, "Profile lookup failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": merchant})
}
