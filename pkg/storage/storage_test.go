package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisStore := NewRedisStoreFromClient(rdb, "test:")
	t.Cleanup(func() { _ = redisStore.Close() })

	return map[string]Store{
		"file":   fileStore,
		"sqlite": sqliteStore,
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := s.Get(ctx, "absent")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Set(ctx, "auth", []byte(`{"token":"a"}`)))
			require.NoError(t, s.Set(ctx, "auth", []byte(`{"token":"b"}`)))

			v, found, err := s.Get(ctx, "auth")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `{"token":"b"}`, string(v))

			require.NoError(t, s.Set(ctx, "auth_token_backup", []byte(`{}`)))
			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"auth", "auth_token_backup"}, keys)

			require.NoError(t, s.Delete(ctx, "auth"))
			require.NoError(t, s.Delete(ctx, "auth"))

			_, found, err = s.Get(ctx, "auth")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestFileStoreRejectsPathTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = s.Set(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(rdb, "confessboard:")

	require.NoError(t, s.Set(ctx, "auth", []byte("v")))
	assert.True(t, mr.Exists("confessboard:auth"))

	require.NoError(t, mr.Set("other:auth", "foreign"))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"auth"}, keys)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Driver: "file", Path: filepath.Join(dir, "state")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Options{Driver: "sqlite", Path: filepath.Join(dir, "backup.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpenRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := Open(context.Background(), Options{Driver: "redis", RedisAddr: mr.Addr(), RedisPrefix: "cb:"})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &RedisStore{}, s)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "auth_token_backup", []byte("persisted")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, "auth_token_backup")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "persisted", string(v))
}
