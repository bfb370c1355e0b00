package model

import (
	"strings"
	"time"
)

// UserID uniquely identifies a user across the system.
// It is generated once and survives logout.
type UserID string

// Username length bounds, in runes, after trimming.
const (
	UsernameMinLen = 2
	UsernameMaxLen = 10
)

// Identity is a user's local identity record.
// An empty Username means the user has not logged in.
type Identity struct {
	UserID    UserID    `json:"userId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsLoggedIn reports whether the identity carries a usable username.
func (i *Identity) IsLoggedIn() bool {
	return strings.TrimSpace(i.Username) != ""
}

// ValidUsername reports whether name, after trimming, is an acceptable
// username. The returned string is the trimmed name.
func ValidUsername(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	n := len([]rune(trimmed))
	return trimmed, n >= UsernameMinLen && n <= UsernameMaxLen
}
