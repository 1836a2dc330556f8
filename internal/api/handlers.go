package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"foodgram/internal/apperr"
	"foodgram/internal/auth"
	"foodgram/internal/httputil"
	"foodgram/internal/metrics"
	"foodgram/internal/paging"
)

// Health reports runtime state and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := metrics.GetSysHealth(h.Config.Media.Dir, h.DB.Ping(r.Context()))
	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, health)
}

func (h *Handler) page(r *http.Request) (paging.Page, error) {
	return paging.Parse(r.URL.Query(), h.Config.API.PageSize, h.Config.API.MaxPageSize)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.NotFound("Not found.")
	}
	return id, nil
}

func viewer(r *http.Request) int64 {
	return auth.ViewerFromContext(r.Context())
}

// requestURL is the absolute URL of r, used for pagination links.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		u.Scheme = "https"
	}
	return &u
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
