package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// runContract exercises the behaviour every backend shares. advance moves
// the backend's notion of time forward.
func runContract(t *testing.T, s Store, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1", 0))
	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, s.Set(ctx, "a", "2", 0))
	v, _, _ = s.Get(ctx, "a")
	assert.Equal(t, "2", v, "set overwrites")

	require.NoError(t, s.Delete(ctx, "a"))
	_, ok, _ = s.Get(ctx, "a")
	assert.False(t, ok)
	require.NoError(t, s.Delete(ctx, "a"), "deleting a missing key is fine")

	require.NoError(t, s.Set(ctx, "ttl", "x", time.Hour))
	_, ok, _ = s.Get(ctx, "ttl")
	assert.True(t, ok)
	advance(2 * time.Hour)
	_, ok, err = s.Get(ctx, "ttl")
	require.NoError(t, err)
	assert.False(t, ok, "entry expired")
}

func TestMemoryContract(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := NewMemory()
	m.now = clock.now
	runContract(t, m, clock.advance)
}

func TestFileContract(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	f, err := OpenFile(filepath.Join(t.TempDir(), "state", "flags.toml"))
	require.NoError(t, err)
	f.now = clock.now
	runContract(t, f, clock.advance)
}

func TestFilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flags.toml")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "waypoint-dontShowAgain", "true", 24*time.Hour))
	require.NoError(t, f.Set(ctx, "resume:intro", "3", 0))

	again, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := again.Get(ctx, "waypoint-dontShowAgain")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	v, _, _ = again.Get(ctx, "resume:intro")
	assert.Equal(t, "3", v)
}

func TestRedisContract(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := NewRedisFromClient(client, WithPrefix("test:"))
	defer s.Close()

	runContract(t, s, mr.FastForward)

	require.NoError(t, s.Set(context.Background(), "k", "v", 0))
	assert.True(t, mr.Exists("test:k"), "keys carry the prefix")
}

func TestSQLiteContract(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer s.Close()
	s.now = clock.now
	runContract(t, s, clock.advance)
}

func TestOpen(t *testing.T) {
	s, err := Open(DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(Config{Backend: BackendFile})
	assert.Error(t, err)
	_, err = Open(Config{Backend: BackendRedis})
	assert.Error(t, err)
	_, err = Open(Config{Backend: "etcd"})
	assert.Error(t, err)

	s, err = Open(Config{Backend: BackendSQLite, Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
