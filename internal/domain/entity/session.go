package entity

import "github.com/google/uuid"

// Session identifies the signed-in user a request acts for
type Session struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
}

// Valid reports whether the session names a user
func (s *Session) Valid() bool {
	return s != nil && s.UserID != uuid.Nil
}
