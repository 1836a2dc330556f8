package api

import (
	"net/http"

	"foodgram/internal/httputil"
	"foodgram/internal/paging"
	"foodgram/internal/subscription"
	"foodgram/internal/user"
)

type registered struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	profiles, total, err := h.Users.List(r.Context(), viewer(r), p)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paging.NewEnvelope(requestURL(r), p, total, profiles))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in user.RegisterInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	u, err := h.Users.Register(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registered{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	p, err := h.Users.Profile(r.Context(), viewer(r), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := viewer(r)
	p, err := h.Users.Profile(r.Context(), id, id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var in user.PasswordChange
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := h.Users.SetPassword(r.Context(), viewer(r), in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	limit, err := subscription.ParseRecipesLimit(r.URL.Query().Get("recipes_limit"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	authors, total, err := h.Subscriptions.List(r.Context(), viewer(r), p, limit)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paging.NewEnvelope(requestURL(r), p, total, authors))
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	limit, err := subscription.ParseRecipesLimit(r.URL.Query().Get("recipes_limit"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	a, err := h.Subscriptions.Subscribe(r.Context(), viewer(r), id, limit)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := h.Subscriptions.Unsubscribe(r.Context(), viewer(r), id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	noContent(w)
}
