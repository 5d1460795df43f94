package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chhengkhim/confessboard/pkg/credentials"
	"github.com/chhengkhim/confessboard/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type tiers struct {
	primary *storage.MemoryStore
	backup  *storage.MemoryStore
	clock   *fakeClock
}

func newTiers() *tiers {
	return &tiers{
		primary: storage.NewMemoryStore(),
		backup:  storage.NewMemoryStore(),
		clock:   &fakeClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)},
	}
}

// reload simulates a fresh process start over the same persisted stores
func (tr *tiers) reload() *Session {
	return New(Options{Primary: tr.primary, Backup: tr.backup, Now: tr.clock.Now})
}

func writeBackup(t *testing.T, st storage.Store, token string, at time.Time) {
	t.Helper()
	data, err := credentials.Encode(credentials.Backup{Token: token, Timestamp: credentials.Stamp(at)})
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), credentials.KeyBackup, data))
}

func TestSetThenGetCredential(t *testing.T) {
	ctx := context.Background()
	s := newTiers().reload()

	for _, token := range []string{"first", "second", "third"} {
		require.NoError(t, s.SetCredential(ctx, token, nil))
		assert.Equal(t, token, s.Credential())
		assert.Equal(t, token, s.Credential())
	}
	assert.Equal(t, Ready, s.State())
	assert.Equal(t, SourceLogin, s.Source())
}

func TestSetCredentialEmptyClearsEveryCopy(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	s := tr.reload()

	require.NoError(t, s.SetCredential(ctx, "tok", &credentials.User{ID: 1}))
	_, found, _ := tr.backup.Get(ctx, credentials.KeyBackup)
	require.True(t, found)

	require.NoError(t, s.SetCredential(ctx, "", nil))
	assert.Equal(t, "", s.Credential())
	assert.Nil(t, s.User())

	_, found, _ = tr.backup.Get(ctx, credentials.KeyBackup)
	assert.False(t, found)
	_, found, _ = tr.primary.Get(ctx, credentials.KeyAuthState)
	assert.False(t, found)

	restored := tr.reload()
	require.NoError(t, restored.InitializeFromStorage(ctx))
	assert.Equal(t, "", restored.Credential())
	assert.Equal(t, SourceNone, restored.Source())
}

func TestLoginPersistsBothTiersAndSurvivesReload(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	s := tr.reload()
	user := &credentials.User{ID: 3, Name: "Sokha", Email: "sokha@example.com"}

	require.NoError(t, s.SetCredential(ctx, "login-token", user))

	var state credentials.AuthState
	data, found, err := tr.primary.Get(ctx, credentials.KeyAuthState)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, credentials.Decode(data, &state))
	assert.Equal(t, "login-token", state.Token)
	assert.True(t, state.IsAuthenticated)

	var backup credentials.Backup
	data, found, err = tr.backup.Get(ctx, credentials.KeyBackup)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, credentials.Decode(data, &backup))
	assert.Equal(t, "login-token", backup.Token)

	tr.clock.Advance(time.Hour)
	restarted := tr.reload()
	require.NoError(t, restarted.InitializeFromStorage(ctx))
	assert.Equal(t, "login-token", restarted.Credential())
	assert.Equal(t, user, restarted.User())
	assert.Equal(t, SourcePrimary, restarted.Source())
}

func TestInitializeFallsBackToBackup(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name   string
		age    time.Duration
		expect string
	}{
		{"backup aged 23 hours", 23 * time.Hour, "backup-token"},
		{"backup aged 25 hours", 25 * time.Hour, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTiers()
			writeBackup(t, tr.backup, "backup-token", tr.clock.Now().Add(-tc.age))

			s := tr.reload()
			require.NoError(t, s.InitializeFromStorage(ctx))
			assert.Equal(t, tc.expect, s.Credential())
			assert.Equal(t, Ready, s.State())
		})
	}
}

func TestInitializeFromBackupHealsPrimary(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	writeBackup(t, tr.backup, "backup-token", tr.clock.Now().Add(-time.Hour))

	s := tr.reload()
	require.NoError(t, s.InitializeFromStorage(ctx))
	assert.Equal(t, SourceBackup, s.Source())

	_, found, err := tr.primary.Get(ctx, credentials.KeyAuthState)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInitializeWithNothingStored(t *testing.T) {
	s := newTiers().reload()
	require.NoError(t, s.InitializeFromStorage(context.Background()))
	assert.Equal(t, "", s.Credential())
	assert.Equal(t, Ready, s.State())
	assert.Equal(t, SourceNone, s.Source())
}

func TestTeardownBlocksBackupResurrection(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	s := tr.reload()

	require.NoError(t, s.SetCredential(ctx, "tok", nil))
	require.NoError(t, s.Teardown(ctx))
	assert.Equal(t, "", s.Credential())

	// A valid backup appears after teardown, well inside its 24h TTL
	writeBackup(t, tr.backup, "resurrected", tr.clock.Now())

	tr.clock.Advance(4 * time.Minute)
	restarted := tr.reload()
	require.NoError(t, restarted.InitializeFromStorage(ctx))
	assert.Equal(t, "", restarted.Credential())
}

func TestClearedFlagExpiresAfterFiveMinutes(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	s := tr.reload()

	require.NoError(t, s.Teardown(ctx))
	writeBackup(t, tr.backup, "later-backup", tr.clock.Now())

	tr.clock.Advance(6 * time.Minute)
	restarted := tr.reload()
	require.NoError(t, restarted.InitializeFromStorage(ctx))
	assert.Equal(t, "later-backup", restarted.Credential())

	_, found, _ := tr.primary.Get(ctx, credentials.KeyCleared)
	assert.False(t, found, "expired flag should be removed")
}

func TestTeardownSweepsAuthKeys(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	s := tr.reload()

	require.NoError(t, s.SetCredential(ctx, "tok", nil))
	require.NoError(t, tr.primary.Set(ctx, "legacy_token", []byte("x")))
	require.NoError(t, tr.backup.Set(ctx, "SessionCache", []byte("x")))
	require.NoError(t, tr.backup.Set(ctx, "output_prefs", []byte("keep")))

	require.NoError(t, s.Teardown(ctx))

	primaryKeys, err := tr.primary.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{credentials.KeyCleared}, primaryKeys)

	backupKeys, err := tr.backup.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"output_prefs"}, backupKeys)
}

func TestLoginAfterTeardownRemovesClearedFlag(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	s := tr.reload()

	require.NoError(t, s.Teardown(ctx))
	require.NoError(t, s.SetCredential(ctx, "fresh", nil))

	restarted := tr.reload()
	require.NoError(t, restarted.InitializeFromStorage(ctx))
	assert.Equal(t, "fresh", restarted.Credential())
}

func TestInitializeRunsOnce(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	s := tr.reload()
	require.NoError(t, s.InitializeFromStorage(ctx))

	writeBackup(t, tr.backup, "late", tr.clock.Now())
	require.NoError(t, s.InitializeFromStorage(ctx))
	assert.Equal(t, "", s.Credential())
}

func TestCorruptRecordIsIgnored(t *testing.T) {
	ctx := context.Background()
	tr := newTiers()
	require.NoError(t, tr.primary.Set(ctx, credentials.KeyAuthState, []byte("{not json")))
	writeBackup(t, tr.backup, "from-backup", tr.clock.Now())

	s := tr.reload()
	require.NoError(t, s.InitializeFromStorage(ctx))
	assert.Equal(t, "from-backup", s.Credential())
}

// blockingStore holds every Get until release is closed.
type blockingStore struct {
	*storage.MemoryStore
	release chan struct{}
}

func (b *blockingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	<-b.release
	return b.MemoryStore.Get(ctx, key)
}

func TestWaitReady(t *testing.T) {
	ctx := context.Background()
	slow := &blockingStore{MemoryStore: storage.NewMemoryStore(), release: make(chan struct{})}
	s := New(Options{Primary: slow})

	assert.False(t, s.WaitReady(ctx, 10*time.Millisecond), "uninitialized session never blocks")

	done := make(chan struct{})
	go func() {
		_ = s.InitializeFromStorage(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return s.State() == Initializing }, time.Second, time.Millisecond)

	start := time.Now()
	assert.False(t, s.WaitReady(ctx, 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	close(slow.release)
	assert.True(t, s.WaitReady(ctx, time.Second))
	<-done
	assert.Equal(t, Ready, s.State())
}

func TestWaitReadyHonorsContext(t *testing.T) {
	slow := &blockingStore{MemoryStore: storage.NewMemoryStore(), release: make(chan struct{})}
	defer close(slow.release)
	s := New(Options{Primary: slow})

	go func() { _ = s.InitializeFromStorage(context.Background()) }()
	require.Eventually(t, func() bool { return s.State() == Initializing }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, s.WaitReady(ctx, time.Minute))
}

// failingStore fails every write.
type failingStore struct {
	*storage.MemoryStore
}

func (f *failingStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestSetCredentialKeepsMemoryOnStorageFailure(t *testing.T) {
	s := New(Options{Backup: &failingStore{MemoryStore: storage.NewMemoryStore()}})

	err := s.SetCredential(context.Background(), "tok", nil)
	assert.Error(t, err)
	assert.Equal(t, "tok", s.Credential())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "initializing", Initializing.String())
	assert.Equal(t, "ready", Ready.String())
}
