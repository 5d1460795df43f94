package credentials

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackupIsFresh validates the backup TTL boundary
func TestBackupIsFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	testCases := []struct {
		name   string
		backup *Backup
		expect bool
	}{
		{"aged 23 hours", &Backup{Token: "t", Timestamp: Stamp(now.Add(-23 * time.Hour))}, true},
		{"aged 25 hours", &Backup{Token: "t", Timestamp: Stamp(now.Add(-25 * time.Hour))}, false},
		{"exactly at ttl", &Backup{Token: "t", Timestamp: Stamp(now.Add(-ttl))}, true},
		{"empty token", &Backup{Token: "", Timestamp: Stamp(now)}, false},
		{"nil backup", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.backup.IsFresh(now, ttl))
		})
	}
}

// TestClearedFlagIsActive validates the cleared flag TTL
func TestClearedFlagIsActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	testCases := []struct {
		name   string
		flag   *ClearedFlag
		expect bool
	}{
		{"just cleared", &ClearedFlag{Cleared: true, Timestamp: Stamp(now.Add(-time.Second))}, true},
		{"four minutes ago", &ClearedFlag{Cleared: true, Timestamp: Stamp(now.Add(-4 * time.Minute))}, true},
		{"six minutes ago", &ClearedFlag{Cleared: true, Timestamp: Stamp(now.Add(-6 * time.Minute))}, false},
		{"not cleared", &ClearedFlag{Cleared: false, Timestamp: Stamp(now)}, false},
		{"nil flag", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.flag.IsActive(now, ttl))
		})
	}
}

// TestAuthStateIsValid validates the persisted auth state check
func TestAuthStateIsValid(t *testing.T) {
	assert.True(t, (&AuthState{Token: "abc", IsAuthenticated: true}).IsValid())
	assert.False(t, (&AuthState{Token: "", IsAuthenticated: true}).IsValid())
	assert.False(t, (&AuthState{Token: "abc", IsAuthenticated: false}).IsValid())

	var missing *AuthState
	assert.False(t, missing.IsValid())
}

// TestEncodeDecodeKeepsTimestamps validates the stored JSON shape
func TestEncodeDecodeKeepsTimestamps(t *testing.T) {
	now := time.Now()
	in := Backup{Token: "tok", User: &User{ID: 7, Name: "Dara", Role: "admin"}, Timestamp: Stamp(now)}

	data, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":`)

	var out Backup
	require.NoError(t, Decode(data, &out))
	assert.Equal(t, in, out)
	assert.True(t, out.User.IsAdmin())
}

// TestUserIsAdmin validates the role check
func TestUserIsAdmin(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsAdmin())
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
}

// TestTokenExpiry validates JWT exp extraction
func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

// TestTokenExpiryOpaqueToken validates non-JWT tokens are reported as unknown
func TestTokenExpiryOpaqueToken(t *testing.T) {
	for _, token := range []string{"", "12|plainSanctumToken", "not.a.jwt"} {
		_, ok := TokenExpiry(token)
		assert.False(t, ok, token)
	}
}
