package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mizan/crimewatch-api/schema"
)

const (
	accountLogPrefix   = "account"
	defaultSessionTTL  = 24 * time.Hour
	uniqueViolationErr = "unique_violation"
)

var (
	ErrAccountTaken        = fmt.Errorf("the email has been registered")
	ErrInvalidCredentials  = fmt.Errorf("invalid credentials")
	ErrSessionNotFound     = fmt.Errorf("session not found")
	ErrPasswordHashFailure = fmt.Errorf("unable to hash password")
)

// SessionStore - interface for accounts and login sessions
type SessionStore interface {
	// CurrentSession returns the session whose id is attached to ctx by schema.WithSessionID
	CurrentSession(ctx context.Context) (*schema.UserSession, error)
	Authenticate(ctx context.Context, email, password string) (*schema.UserSession, error)
	InvalidateAllSessions(ctx context.Context, userID string) error
	CreateAccount(ctx context.Context, id, email, password string) (*schema.Account, error)
	Pinger
}

// AccountStore is a postgres implementation of SessionStore
type AccountStore struct {
	ormDB      *gorm.DB
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAccountStore(ormDB *gorm.DB, sessionTTL time.Duration) *AccountStore {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}

	return &AccountStore{
		ormDB:      ormDB,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Ping is to check the storage health status
func (s *AccountStore) Ping() error {
	return s.ormDB.DB().Ping()
}

// CreateAccount is to register an account with a bcrypt hashed password
func (s *AccountStore) CreateAccount(ctx context.Context, id, email, password string) (*schema.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithField("prefix", accountLogPrefix).WithError(err).Error("hash password")
		return nil, ErrPasswordHashFailure
	}

	a := schema.Account{
		ID:           id,
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
	}

	if err := s.ormDB.Create(&a).Error; err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == uniqueViolationErr {
			return nil, ErrAccountTaken
		}
		return nil, err
	}

	return &a, nil
}

// Authenticate checks the credential pair and opens a new session
func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (*schema.UserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var a schema.Account
	if err := s.ormDB.Where("email = ?", normalizeEmail(email)).First(&a).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := schema.Session{
		ID:        uuid.New().String(),
		AccountID: a.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.ormDB.Create(&session).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"prefix":  accountLogPrefix,
		"account": a.ID,
	}).Info("session created")

	return &schema.UserSession{
		UserID:    session.AccountID,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// CurrentSession returns the unexpired session attached to ctx
func (s *AccountStore) CurrentSession(ctx context.Context) (*schema.UserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessionID := schema.SessionIDFromContext(ctx)
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	var session schema.Session
	if err := s.ormDB.Where("id = ? AND expires_at > ?", sessionID, s.now().UTC()).First(&session).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &schema.UserSession{
		UserID:    session.AccountID,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// InvalidateAllSessions removes every session of a user
func (s *AccountStore) InvalidateAllSessions(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.ormDB.Delete(schema.Session{}, "account_id = ?", userID).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
