// Package credentials defines the persisted records that back a session:
// the serialized auth state, the manual token backup and the
// "intentionally cleared" flag. All records embed unix-millisecond
// timestamps so their age can be checked after a restart.
package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	json "github.com/json-iterator/go"
)

// Storage keys shared by every store tier.
const (
	KeyAuthState = "auth"
	KeyBackup    = "auth_token_backup"
	KeyCleared   = "auth_cleared"
)

// User is the identity summary kept next to a token.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// AuthState is the serialized auth slice written to the primary store.
type AuthState struct {
	Token           string `json:"token"`
	User            *User  `json:"user,omitempty"`
	IsAuthenticated bool   `json:"is_authenticated"`
	SavedAt         int64  `json:"saved_at"`
}

// Backup is the manual credential backup written to the backup store.
type Backup struct {
	Token     string `json:"token"`
	User      *User  `json:"user,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ClearedFlag marks a deliberate logout so the backup tier cannot
// resurrect the discarded token.
type ClearedFlag struct {
	Cleared   bool  `json:"cleared"`
	Timestamp int64 `json:"timestamp"`
}

// Stamp converts t to the millisecond timestamps used by all records
func Stamp(t time.Time) int64 {
	return t.UnixMilli()
}

func age(ts int64, now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(ts))
}

// Age returns how long ago the backup was written
func (b *Backup) Age(now time.Time) time.Duration {
	return age(b.Timestamp, now)
}

// IsFresh reports whether the backup holds a token no older than ttl
func (b *Backup) IsFresh(now time.Time, ttl time.Duration) bool {
	return b != nil && b.Token != "" && b.Age(now) <= ttl
}

// Age returns how long ago the auth state was saved
func (s *AuthState) Age(now time.Time) time.Duration {
	return age(s.SavedAt, now)
}

// IsValid reports whether the state carries a usable token
func (s *AuthState) IsValid() bool {
	return s != nil && s.IsAuthenticated && s.Token != ""
}

// IsActive reports whether the cleared flag still applies
func (f *ClearedFlag) IsActive(now time.Time, ttl time.Duration) bool {
	return f != nil && f.Cleared && age(f.Timestamp, now) <= ttl
}

// Encode marshals a record for storage
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals a stored record
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// TokenExpiry reads the exp claim of a JWT without verifying it. Opaque
// tokens report ok=false.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
