package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KeyValue {
	t.Helper()
	ctx := context.Background()

	cgo, err := NewSQLiteRepository(ctx, DriverSQLite3, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cgo.Close() })

	pure, err := NewSQLiteRepository(ctx, DriverSQLite, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pure.Close() })

	mr := miniredis.RunT(t)
	rds, err := NewRedisRepository(ctx, RedisOptions{Address: mr.Addr(), Prefix: "echohive:"})
	require.NoError(t, err)
	t.Cleanup(func() { rds.Close() })

	return map[string]KeyValue{
		"memory":  NewMemoryRepository(),
		"sqlite3": cgo,
		"sqlite":  pure,
		"redis":   rds,
	}
}

func TestKeyValueContract(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "theme", "dark"))
			v, ok, err := kv.Get(ctx, "theme")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", v)

			require.NoError(t, kv.Set(ctx, "theme", "light"))
			v, _, err = kv.Get(ctx, "theme")
			require.NoError(t, err)
			assert.Equal(t, "light", v)

			require.NoError(t, kv.Set(ctx, "empty", ""))
			v, ok, err = kv.Get(ctx, "empty")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "", v)

			require.NoError(t, kv.Remove(ctx, "theme"))
			require.NoError(t, kv.Remove(ctx, "theme"))
			_, ok, err = kv.Get(ctx, "theme")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "echohive.db")

	repo, err := NewSQLiteRepository(ctx, DriverSQLite3, path)
	require.NoError(t, err)
	require.NoError(t, repo.Set(ctx, "echohive_foodblogs_v1", `[{"id":1}]`))
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(ctx, DriverSQLite3, path)
	require.NoError(t, err)
	defer repo.Close()

	v, ok, err := repo.Get(ctx, "echohive_foodblogs_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
}

func TestRedisUsesPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	repo, err := NewRedisRepository(ctx, RedisOptions{Address: mr.Addr(), Prefix: "hive:"})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Set(ctx, "echohive_theme_v1", "dark"))
	got, err := mr.Get("hive:echohive_theme_v1")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}

func TestRedisRequiresAddress(t *testing.T) {
	repo, err := NewRedisRepository(context.Background(), RedisOptions{})
	assert.ErrorIs(t, err, ErrEmptyAddress)
	assert.Nil(t, repo)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, kv)

	kv, err = Open(ctx, Options{Driver: DriverSQLite3, DSN: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepository{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(ctx, Options{Driver: "bolt"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, DriverLibSQL, driverFor(DriverSQLite3, "libsql://db.turso.io?authToken=x"))
	assert.Equal(t, DriverLibSQL, driverFor("", "wss://db.turso.io"))
	assert.Equal(t, DriverSQLite3, driverFor("", "echohive.db"))
	assert.Equal(t, DriverSQLite, driverFor(DriverSQLite, "echohive.db"))
}
