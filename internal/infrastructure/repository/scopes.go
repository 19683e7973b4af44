package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sangkips/invowise-api/internal/domain/entity"
	"github.com/sangkips/invowise-api/pkg/apperror"
)

// ErrNoSession is returned by writes attempted without a signed-in user
var ErrNoSession = apperror.ErrSessionRequired

type ctxKey string

// SessionKey is the context key for the signed-in user's session
const SessionKey ctxKey = "session"

// WithSession adds the session to the context
func WithSession(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSession extracts the session from the context
func GetSession(ctx context.Context) (*entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*entity.Session)
	if !ok || !session.Valid() {
		return nil, false
	}
	return session, true
}

// UserScope returns a GORM scope that restricts rows to the session user.
// Without a session the query matches nothing.
func UserScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		session, ok := GetSession(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", session.UserID)
	}
}
