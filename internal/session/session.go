// Package session encodes the signed-in user object that the portal keeps on
// the client under the govtjobs-user key.
package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Key is the cookie and browser-storage key holding the session object.
const Key = "govtjobs-user"

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone,omitempty"`
}

func Encode(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode parses a stored session. Anything unreadable, or a session without an
// id, yields ok=false; callers drop it rather than report an error.
func Decode(raw string) (User, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return User{}, false
	}
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(raw, "="))
	if err != nil {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal(b, &u); err != nil {
		return User{}, false
	}
	if u.ID == uuid.Nil {
		return User{}, false
	}
	return u, true
}
