package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prompt-general/vectorpress/internal/content"
	"github.com/prompt-general/vectorpress/internal/store"
)

// requestMiddleware assigns a request id, injects the typed request context
// and logs each request on completion.
func (g *Gateway) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := withRequestContext(r.Context(), &RequestContext{RequestID: requestID})
		r = r.WithContext(ctx)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(wrapped, r)

		g.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     wrapped.statusCode,
			"duration":   time.Since(start).String(),
		}).Debug("request handled")
	})
}

// securityHeadersMiddleware sets baseline response headers.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// resolveBearer extracts and authenticates the bearer token. A missing
// header yields (nil, nil); the caller decides whether that is acceptable.
func (g *Gateway) resolveBearer(r *http.Request) (*store.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return nil, errors.Wrap(content.ErrInvalidToken, "authorization header is not a bearer token")
	}

	return g.content.Authenticate(r.Context(), token)
}

// withIdentity resolves the bearer token when present and records the
// identity in the request context. A present-but-invalid token is rejected
// outright; an absent token leaves the request anonymous so per-field
// authorization can decide.
func (g *Gateway) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolveBearer(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if rc := RequestContextFrom(r.Context()); rc != nil {
			rc.User = user
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth is withIdentity plus a hard requirement that an identity was
// resolved.
func (g *Gateway) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.resolveBearer(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if rc := RequestContextFrom(r.Context()); rc != nil {
			rc.User = user
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
