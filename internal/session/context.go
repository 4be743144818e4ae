package session

import (
	"context"

	"bookvault/models"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying the resolved session.
func NewContext(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// FromContext returns the session attached by the access-control gate,
// or nil when the request is anonymous.
func FromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(contextKey{}).(*models.Session)
	return session
}
