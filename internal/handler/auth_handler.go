package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-harvester/internal/auth"
)

// AuthHandler exposes the operator login endpoint.
type AuthHandler struct {
	jwt      *auth.JWTManager
	passHash string
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(jwtManager *auth.JWTManager, adminPassHash string) *AuthHandler {
	return &AuthHandler{jwt: jwtManager, passHash: adminPassHash}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Password == "" {
		return Error(c, http.StatusBadRequest, "password is required")
	}

	if err := auth.VerifyAdminPassword(h.passHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}

	token, err := h.jwt.GenerateToken("admin", "admin")
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}
	return Success(c, http.StatusOK, "login successful", loginResponse{AccessToken: token})
}
