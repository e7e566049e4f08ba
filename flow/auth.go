package flow

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mizan/crimewatch-api/schema"
	"github.com/mizan/crimewatch-api/store"
)

const (
	opSignup = "signup"
	opLogin  = "login"
	opLogout = "logout"
)

type signupCredential struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type loginCredential struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type Authenticator struct {
	sessions store.SessionStore
	validate *validator.Validate
	config   Config
}

func NewAuthenticator(sessions store.SessionStore, config Config) *Authenticator {
	return &Authenticator{
		sessions: sessions,
		validate: validator.New(),
		config:   config.withDefaults(),
	}
}

// Signup registers an account under a fresh id
func (a *Authenticator) Signup(ctx context.Context, email, password string) (*schema.Account, error) {
	if err := a.validate.Struct(signupCredential{Email: email, Password: password}); err != nil {
		return nil, newError(ErrValidation, opSignup, err)
	}

	cctx, cancel := a.config.callContext(ctx)
	defer cancel()

	account, err := a.sessions.CreateAccount(cctx, uuid.New().String(), email, password)
	if err != nil {
		return nil, newError(ErrAuth, opSignup, err)
	}

	return account, nil
}

// Login drops every session of the user already signed in on the caller, then opens a new one
func (a *Authenticator) Login(ctx context.Context, email, password string) (*schema.UserSession, error) {
	if err := a.validate.Struct(loginCredential{Email: email, Password: password}); err != nil {
		return nil, newError(ErrValidation, opLogin, err)
	}

	if current, err := a.currentSession(ctx); err == nil && current != nil {
		cctx, cancel := a.config.callContext(ctx)
		err := a.sessions.InvalidateAllSessions(cctx, current.UserID)
		cancel()
		if err != nil {
			return nil, newError(ErrAuth, opLogin, err)
		}
	}

	cctx, cancel := a.config.callContext(ctx)
	defer cancel()

	session, err := a.sessions.Authenticate(cctx, email, password)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": "flow",
			"error":  err,
		}).Info("login failed")
		return nil, newError(ErrAuth, opLogin, err)
	}

	return session, nil
}

// Logout invalidates every session of the current user
func (a *Authenticator) Logout(ctx context.Context) error {
	session, err := currentUser(ctx, a.sessions, a.config, opLogout)
	if err != nil {
		return err
	}

	cctx, cancel := a.config.callContext(ctx)
	defer cancel()

	if err := a.sessions.InvalidateAllSessions(cctx, session.UserID); err != nil {
		return newError(ErrAuth, opLogout, err)
	}

	return nil
}

func (a *Authenticator) currentSession(ctx context.Context) (*schema.UserSession, error) {
	if schema.SessionIDFromContext(ctx) == "" {
		return nil, store.ErrSessionNotFound
	}

	cctx, cancel := a.config.callContext(ctx)
	defer cancel()

	return a.sessions.CurrentSession(cctx)
}
