package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmart-ke/farmart-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists bearer sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type sessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:128"`
	UserID    int64     `gorm:"column:user_id;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Save upserts a session token.
func (s *SessionStore) Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session token is empty")
	}
	record := sessionRecord{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "expires_at"}),
		}).
		Create(&record).Error
}

// Lookup resolves a token to its user, rejecting expired sessions.
func (s *SessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	var record sessionRecord
	err := s.db.WithContext(ctx).
		First(&record, "token = ? AND expires_at > ?", strings.TrimSpace(token), time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ports.ErrSessionNotFound
		}
		return 0, err
	}
	return record.UserID, nil
}

// DeleteForUser revokes every session of a user.
func (s *SessionStore) DeleteForUser(ctx context.Context, userID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&sessionRecord{}).Error
}

// PurgeExpired removes sessions past their expiry. Run by cmd/session-purger.
func (s *SessionStore) PurgeExpired(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&sessionRecord{}).Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
