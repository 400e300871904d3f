package domain

import "time"

// Session is what a successful login hands back: a signed bearer token and
// its lifetime. Tokens are not persisted.
type Session struct {
	Token     string
	TokenType string // always "Bearer"
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ExpiresIn is the advisory lifetime in whole seconds.
func (s Session) ExpiresIn() int64 {
	return int64(s.ExpiresAt.Sub(s.IssuedAt) / time.Second)
}
