package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vestibule-auth/vestibule/internal/models"
	"github.com/vestibule-auth/vestibule/internal/services"
	pkghttp "github.com/vestibule-auth/vestibule/pkg/http"
)

// LoginServiceInterface defines the interface for the login flow
type LoginServiceInterface interface {
	Login(ctx context.Context, credentials map[string]string, ip string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.LoginResult, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  LoginServiceInterface
	ipConfig *pkghttp.IPConfig
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service LoginServiceInterface, ipConfig *pkghttp.IPConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
		logger:   logger,
	}
}

// TokenResponse is the body returned on successful login.
type TokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Account      *AccountResponse `json:"account"`
}

// Login handles an explicit credential login. The body is decoded into
// a plain string map before it reaches the session layer: only the
// configured credential fields are ever extracted from it, so extra
// keys are inert.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials map[string]string
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		pkghttp.WriteBadRequest(w, "request body must be a JSON object of strings")
		return
	}

	if err := validateCredentialValues(credentials); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ip := pkghttp.ExtractClientIP(r, h.ipConfig)

	result, err := h.service.Login(r.Context(), credentials, ip)
	if err != nil {
		var loginErr *services.LoginError
		if errors.As(err, &loginErr) {
			pkghttp.WriteErrorWithDetails(w, http.StatusUnauthorized,
				"invalid_credentials", "login failed", loginErr.Errors)
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Account:      accountToResponse(result.Account),
	})
}

// RefreshTokenRequest is the body for POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		pkghttp.WriteBadRequest(w, "refresh_token is required")
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "authentication failed")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Account:      accountToResponse(result.Account),
	})
}
