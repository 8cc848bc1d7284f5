package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	shopAuth "github.com/MrEthical07/shopAuth"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal attached by Authenticate.
func PrincipalFromContext(ctx context.Context) (*shopAuth.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*shopAuth.Principal)
	return p, ok && p != nil
}

// Authenticate resolves the request's access token and attaches the
// principal to the request context.
func Authenticate(engine *shopAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				WriteError(w, shopAuth.ErrEngineNotReady)
				return
			}

			r = r.WithContext(RequestContext(r))
			p, err := engine.AuthenticateRequest(r)
			if err != nil {
				WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole admits only principals of role. It must run after
// Authenticate.
func RequireRole(engine *shopAuth.Engine, role shopAuth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			if err := engine.RequireRole(p, role); err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestContext returns r's context with the client IP and User-Agent
// attached for audit records.
func RequestContext(r *http.Request) context.Context {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	ctx := shopAuth.WithClientIP(r.Context(), ip)
	return shopAuth.WithUserAgent(ctx, r.UserAgent())
}

// WriteError writes err as a JSON message with its mapped status.
func WriteError(w http.ResponseWriter, err error) {
	msg := "Internal server error"
	var e *shopAuth.Error
	if errors.As(err, &e) && e.Kind != shopAuth.KindDatabase {
		msg = e.Message
	}
	WriteJSON(w, shopAuth.StatusCode(err), map[string]string{"message": msg})
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
