package cache

import (
	"errors"
	"fmt"
	"time"
)

// key names definition
const (
	SessionKey = "session:%s" // key of a login session, '%s' is the session token
)

func MakeSessionKey(token string) string {
	return fmt.Sprintf(SessionKey, token)
}

// struct definitions
// the data put into redis under SessionKey should follow the struct
type SessionData struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// errors
var (
	ErrSessionNotFound = errors.New("session not found")
)
