package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/respond"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/token", h.Token)
	r.With(auth.Authenticate(h.svc)).Post("/logout", h.logout)
}

// Token exchanges the identity provider token in the Authorization header
// for a data API token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	upstream := auth.BearerToken(r)
	if upstream == "" {
		http.Error(w, "token required", http.StatusUnauthorized)
		return
	}

	token, err := h.svc.Exchange(r.Context(), upstream)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, token)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		respond.Error(w, r, errors.Join(auth.ErrInvalidToken, err))
		return
	}

	if err := h.svc.Logout(r.Context(), userID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
