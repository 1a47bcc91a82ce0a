package api

import (
	"context"

	"github.com/prompt-general/vectorpress/internal/store"
)

type contextKey struct{}

// RequestContext is the strongly-typed per-request state the gateway
// middleware injects: the request id and the optional authenticated
// identity. Store access itself goes through the content service, which
// draws request-scoped sessions from the driver pool per call.
type RequestContext struct {
	RequestID string
	User      *store.User
}

func withRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// RequestContextFrom returns the request context, or nil when the request
// did not pass through the gateway middleware.
func RequestContextFrom(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(contextKey{}).(*RequestContext)
	return rc
}

// identityFrom returns the authenticated user, or nil for an anonymous
// request.
func identityFrom(ctx context.Context) *store.User {
	if rc := RequestContextFrom(ctx); rc != nil {
		return rc.User
	}
	return nil
}
