package api

import (
	"net/http"

	"foodgram/internal/httputil"
	"foodgram/internal/logging"
	"foodgram/internal/user"
)

type tokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// Login exchanges email and password for a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in user.Credentials
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	u, err := h.Users.Authenticate(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	logging.Info().Int64("user_id", u.ID).Msg("Token issued")
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}

// Logout acknowledges the client discarding its token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	noContent(w)
}
