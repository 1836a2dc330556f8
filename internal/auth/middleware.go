package auth

import (
	"context"
	"net/http"
	"strings"

	"foodgram/internal/apperr"
	"foodgram/internal/httputil"
	"foodgram/internal/logging"
)

type ctxKey struct{}

// UserChecker reports whether an account still exists.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// WithViewer returns a copy of ctx carrying the authenticated user id.
func WithViewer(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// ViewerFromContext returns the authenticated user id, or 0 for an
// anonymous request.
func ViewerFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKey{}).(int64)
	return id
}

// Authenticate resolves the Authorization header into a viewer id. Requests
// without the header continue anonymously; a header that does not verify
// is rejected outright.
func Authenticate(tokens *TokenManager, users UserChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearer(header)
			if !ok {
				httputil.WriteError(w, r, apperr.Unauthorized("Invalid token header."))
				return
			}
			id, err := tokens.Parse(raw)
			if err != nil {
				logging.Debug().Err(err).Msg("Rejected token")
				httputil.WriteError(w, r, apperr.Unauthorized("Invalid token."))
				return
			}

			exists, err := users.Exists(r.Context(), id)
			if err != nil {
				httputil.WriteError(w, r, err)
				return
			}
			if !exists {
				httputil.WriteError(w, r, apperr.Unauthorized("User inactive or deleted."))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), id)))
		})
	}
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
