// Package session owns the bearer credential for one process. The token
// lives in memory; the primary and backup stores only cache it so it can
// be restored after a restart.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/chhengkhim/confessboard/pkg/credentials"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/chhengkhim/confessboard/pkg/storage"
)

// State is the initialization state of a Session.
type State int32

const (
	Uninitialized State = iota
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Source records where the current token came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceLogin   Source = "login"
	SourcePrimary Source = "primary"
	SourceBackup  Source = "backup"
)

const (
	DefaultBackupTTL  = 24 * time.Hour
	DefaultClearedTTL = 5 * time.Minute
)

// authKeyPattern matches every key torn down on logout or 401.
var authKeyPattern = regexp.MustCompile(`(?i)(auth|token|session|credential)`)

// Options configures a Session. Zero TTLs fall back to the defaults.
type Options struct {
	Primary    storage.Store
	Backup     storage.Store
	BackupTTL  time.Duration
	ClearedTTL time.Duration
	Now        func() time.Time
}

// Session holds the single authoritative credential.
type Session struct {
	mu     sync.RWMutex
	token  string
	user   *credentials.User
	source Source
	state  State

	ready     chan struct{}
	readyOnce sync.Once

	primary    storage.Store
	backup     storage.Store
	backupTTL  time.Duration
	clearedTTL time.Duration
	now        func() time.Time
}

// New creates an uninitialized session. Nil stores are replaced with
// in-memory ones.
func New(opts Options) *Session {
	s := &Session{
		source:     SourceNone,
		ready:      make(chan struct{}),
		primary:    opts.Primary,
		backup:     opts.Backup,
		backupTTL:  opts.BackupTTL,
		clearedTTL: opts.ClearedTTL,
		now:        opts.Now,
	}
	if s.primary == nil {
		s.primary = storage.NewMemoryStore()
	}
	if s.backup == nil {
		s.backup = storage.NewMemoryStore()
	}
	if s.backupTTL <= 0 {
		s.backupTTL = DefaultBackupTTL
	}
	if s.clearedTTL <= 0 {
		s.clearedTTL = DefaultClearedTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Credential returns the in-memory token, or "" when there is none
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the identity stored with the token
func (s *Session) User() *credentials.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Source reports where the current token came from
func (s *Session) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// State returns the initialization state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether a token is held
func (s *Session) IsAuthenticated() bool {
	return s.Credential() != ""
}

func (s *Session) markReady() {
	s.mu.Lock()
	s.state = Ready
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })
}

// SetCredential replaces the in-memory token and refreshes the persisted
// copies. An empty token clears memory and deletes both persisted
// copies. Storage failures are returned but never undo the in-memory
// update.
func (s *Session) SetCredential(ctx context.Context, token string, user *credentials.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	if token == "" {
		s.user = nil
		s.source = SourceNone
	} else {
		s.source = SourceLogin
	}
	s.mu.Unlock()
	s.markReady()

	if token == "" {
		return errors.Join(
			s.backup.Delete(ctx, credentials.KeyBackup),
			s.primary.Delete(ctx, credentials.KeyAuthState),
		)
	}

	now := s.now()
	var errs []error
	if err := s.writeRecord(ctx, s.backup, credentials.KeyBackup, credentials.Backup{
		Token:     token,
		User:      user,
		Timestamp: credentials.Stamp(now),
	}); err != nil {
		errs = append(errs, err)
	}
	if err := s.writeRecord(ctx, s.primary, credentials.KeyAuthState, credentials.AuthState{
		Token:           token,
		User:            user,
		IsAuthenticated: true,
		SavedAt:         credentials.Stamp(now),
	}); err != nil {
		errs = append(errs, err)
	}
	// A fresh login supersedes an earlier deliberate logout
	if err := s.primary.Delete(ctx, credentials.KeyCleared); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		logger.Warn("Failed to persist credential", "error", err)
		return err
	}
	logger.Debug("Credential stored", "user", userEmail(user))
	return nil
}

// InitializeFromStorage restores the token after a restart. It runs once
// per session; later calls return immediately. The session is Ready when
// it returns, whatever the outcome.
func (s *Session) InitializeFromStorage(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Uninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = Initializing
	s.mu.Unlock()
	defer s.markReady()

	now := s.now()

	var flag credentials.ClearedFlag
	found, err := s.readRecord(ctx, s.primary, credentials.KeyCleared, &flag)
	if err != nil {
		logger.Warn("Failed to read cleared flag", "error", err)
	}
	if found {
		if flag.IsActive(now, s.clearedTTL) {
			logger.Debug("Credential was cleared on purpose, not restoring")
			return nil
		}
		_ = s.primary.Delete(ctx, credentials.KeyCleared)
	}

	var state credentials.AuthState
	found, err = s.readRecord(ctx, s.primary, credentials.KeyAuthState, &state)
	if err != nil {
		logger.Warn("Failed to read auth state", "error", err)
	}
	if found && state.IsValid() {
		s.restore(state.Token, state.User, SourcePrimary)
		logger.Debug("Credential restored", "source", SourcePrimary)
		return nil
	}

	var backup credentials.Backup
	found, backupErr := s.readRecord(ctx, s.backup, credentials.KeyBackup, &backup)
	if backupErr != nil {
		logger.Warn("Failed to read credential backup", "error", backupErr)
	}
	if !found {
		return errors.Join(err, backupErr)
	}
	if !backup.IsFresh(now, s.backupTTL) {
		logger.Debug("Ignoring stale credential backup", "age", backup.Age(now))
		_ = s.backup.Delete(ctx, credentials.KeyBackup)
		return nil
	}

	s.restore(backup.Token, backup.User, SourceBackup)
	logger.Debug("Credential restored", "source", SourceBackup, "age", backup.Age(now))

	// Heal the primary tier so the next start does not need the backup
	if err := s.writeRecord(ctx, s.primary, credentials.KeyAuthState, credentials.AuthState{
		Token:           backup.Token,
		User:            backup.User,
		IsAuthenticated: true,
		SavedAt:         credentials.Stamp(now),
	}); err != nil {
		logger.Warn("Failed to rewrite auth state", "error", err)
	}
	return nil
}

func (s *Session) restore(token string, user *credentials.User, source Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.source = source
}

// WaitReady blocks while the session is Initializing, at most timeout.
// It reports whether the session is Ready on return.
func (s *Session) WaitReady(ctx context.Context, timeout time.Duration) bool {
	switch s.State() {
	case Ready:
		return true
	case Uninitialized:
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.ready:
		return true
	case <-timer.C:
		logger.Warn("Session still initializing, continuing without waiting", "timeout", timeout)
		return false
	case <-ctx.Done():
		return false
	}
}

// Teardown discards the credential everywhere: memory, the auth state,
// the backup, and every other auth-looking key in either store. It then
// writes the cleared flag so the backup tier cannot bring the token back.
func (s *Session) Teardown(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.source = SourceNone
	s.mu.Unlock()
	s.markReady()

	var errs []error
	if err := s.primary.Delete(ctx, credentials.KeyAuthState); err != nil {
		errs = append(errs, err)
	}
	if err := s.backup.Delete(ctx, credentials.KeyBackup); err != nil {
		errs = append(errs, err)
	}
	for _, st := range []storage.Store{s.primary, s.backup} {
		if err := sweep(ctx, st); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.writeRecord(ctx, s.primary, credentials.KeyCleared, credentials.ClearedFlag{
		Cleared:   true,
		Timestamp: credentials.Stamp(s.now()),
	}); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		logger.Warn("Credential teardown incomplete", "error", err)
		return err
	}
	logger.Debug("Credential torn down")
	return nil
}

// Logout is an explicit, user-initiated teardown
func (s *Session) Logout(ctx context.Context) error {
	return s.Teardown(ctx)
}

// SavedAt returns when the persisted auth state was written, if any
func (s *Session) SavedAt(ctx context.Context) (time.Time, bool) {
	var state credentials.AuthState
	found, err := s.readRecord(ctx, s.primary, credentials.KeyAuthState, &state)
	if err != nil || !found {
		return time.Time{}, false
	}
	return time.UnixMilli(state.SavedAt), true
}

func sweep(ctx context.Context, st storage.Store) error {
	keys, err := st.Keys(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, key := range keys {
		if authKeyPattern.MatchString(key) {
			if err := st.Delete(ctx, key); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Session) writeRecord(ctx context.Context, st storage.Store, key string, v interface{}) error {
	data, err := credentials.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return st.Set(ctx, key, data)
}

func (s *Session) readRecord(ctx context.Context, st storage.Store, key string, v interface{}) (bool, error) {
	data, found, err := st.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := credentials.Decode(data, v); err != nil {
		// A corrupt record is as good as a missing one
		_ = st.Delete(ctx, key)
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func userEmail(u *credentials.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}
