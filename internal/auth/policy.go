package auth

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"foodgram/internal/apperr"
	"foodgram/internal/httputil"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Policy subjects.
const (
	SubjectAnonymous = "anonymous"
	SubjectUser      = "user"
)

// Policy decides route access from the embedded casbin rules.
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// NewPolicy loads the embedded model and rules.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Policy{enforcer: enforcer}, nil
}

func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] != "p" || len(parts) != 5 {
			return fmt.Errorf("malformed policy line %q", line)
		}
		if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3], parts[4]); err != nil {
			return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
		}
	}
	return nil
}

// Allowed reports whether subject may perform method on path.
func (p *Policy) Allowed(subject, path, method string) (bool, error) {
	ok, err := p.enforcer.Enforce(subject, path, method)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return ok, nil
}

// Middleware rejects requests the policy does not allow. It must run
// after Authenticate. Anonymous callers get 401, users 403.
func (p *Policy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := SubjectAnonymous
		if ViewerFromContext(r.Context()) != 0 {
			subject = SubjectUser
		}

		ok, err := p.Allowed(subject, r.URL.Path, r.Method)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if !ok {
			if subject == SubjectAnonymous {
				httputil.WriteError(w, r, apperr.Unauthorized("Authentication credentials were not provided."))
				return
			}
			httputil.WriteError(w, r, apperr.Forbidden("You do not have permission to perform this action."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
