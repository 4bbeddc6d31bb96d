package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/vestibule-auth/vestibule/internal/auth"
	"github.com/vestibule-auth/vestibule/internal/models"
	pkghttp "github.com/vestibule-auth/vestibule/pkg/http"
)

// AccountResponse represents an account in HTTP responses. The
// password hash never leaves the service.
type AccountResponse struct {
	ID             string  `json:"id"`
	Login          string  `json:"login"`
	Email          string  `json:"email"`
	LoginCount     int     `json:"login_count"`
	LastRequestAt  *string `json:"last_request_at,omitempty"`
	CurrentLoginAt *string `json:"current_login_at,omitempty"`
	LastLoginAt    *string `json:"last_login_at,omitempty"`
	CurrentLoginIP string  `json:"current_login_ip,omitempty"`
	LastLoginIP    string  `json:"last_login_ip,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// Me returns the authenticated account with its login history.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	acct, err := h.service.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "account not found")
			return
		}
		pkghttp.WriteInternalError(w, "internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, accountToResponse(acct))
}

func accountToResponse(acct *models.Account) *AccountResponse {
	return &AccountResponse{
		ID:             acct.ID,
		Login:          acct.Login,
		Email:          acct.Email,
		LoginCount:     acct.LoginCount,
		LastRequestAt:  formatTime(acct.LastRequestAt),
		CurrentLoginAt: formatTime(acct.CurrentLoginAt),
		LastLoginAt:    formatTime(acct.LastLoginAt),
		CurrentLoginIP: acct.CurrentLoginIP,
		LastLoginIP:    acct.LastLoginIP,
		CreatedAt:      acct.CreatedAt.Format(time.RFC3339),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
