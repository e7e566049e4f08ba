package flow

import (
	"context"

	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

// currentUser resolves the caller through the session store. Any failure is an identity error.
func currentUser(ctx context.Context, sessions store.SessionStore, config Config, op string) (*schema.UserSession, error) {
	cctx, cancel := config.callContext(ctx)
	defer cancel()

	session, err := sessions.CurrentSession(cctx)
	if err != nil {
		return nil, newError(ErrIdentity, op, err)
	}

	if session == nil || session.UserID == "" {
		return nil, newError(ErrIdentity, op, ErrNoSession)
	}

	return session, nil
}
