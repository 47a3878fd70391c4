package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmptyCredential(t *testing.T) {
	tests := []struct {
		input  string
		expect bool
	}{
		{"", true},
		{"null", true},
		{"undefined", true},
		{"abc.def.ghi", false},
		{"Null", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, IsEmptyCredential(tt.input), "input %q", tt.input)
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyToken, "t-1"))
	v, ok, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t-1", v)

	// last write wins
	require.NoError(t, s.Set(KeyToken, "t-2"))
	assert.Equal(t, "t-2", GetString(s, KeyToken))

	require.NoError(t, s.Delete(KeyToken))
	_, ok, err = s.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// 删除不存在的键不报错
	require.NoError(t, s.Delete("missing"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(KeyIsLogin, "true"))
	require.NoError(t, first.Set(KeyUser, `{"id":1}`))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "true", GetString(second, KeyIsLogin))
	assert.Equal(t, `{"id":1}`, GetString(second, KeyUser))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, _, err = s.Get(KeyToken)
	assert.Error(t, err)
	assert.Equal(t, "", GetString(s, KeyToken))
}

func TestNewFileStore_EmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), Prefix: "mtconsole:test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestRedisStore_HashUnderPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newRedisStore(client, RedisConfig{Prefix: "mtconsole:host-a"})
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(KeyToken, "tok"))
	require.NoError(t, s.Set(KeyIsLogin, "true"))
	assert.Equal(t, "tok", mr.HGet("mtconsole:host-a", KeyToken))
	assert.Equal(t, "true", mr.HGet("mtconsole:host-a", KeyIsLogin))

	// 相同前缀的实例共享会话
	other := newRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), RedisConfig{Prefix: "mtconsole:host-a"})
	t.Cleanup(func() { _ = other.Close() })
	assert.True(t, MarkerSet(other))

	require.NoError(t, other.Delete(KeyToken))
	assert.Equal(t, "", mr.HGet("mtconsole:host-a", KeyToken))
	assert.Equal(t, "", GetString(s, KeyToken))
}

func TestRedisStore_DefaultKey(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), RedisConfig{})
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(KeyUser, `{"id":1}`))
	assert.Equal(t, `{"id":1}`, mr.HGet("mtconsole:state", KeyUser))
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), RedisConfig{OpTimeout: time.Second})
	t.Cleanup(func() { _ = s.Close() })
	mr.Close()

	_, _, err := s.Get(KeyToken)
	assert.Error(t, err)
	assert.Error(t, s.Set(KeyToken, "x"))
	assert.False(t, MarkerSet(s))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, OpTimeout: time.Second})
	assert.Error(t, err)
}

func TestNewRedisStore_RequiresAddr(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{})
	assert.Error(t, err)
}

func TestMarkerSet(t *testing.T) {
	s := NewMemoryStore()
	assert.False(t, MarkerSet(s))

	for _, v := range []string{"", "false", "0", "null", "undefined"} {
		require.NoError(t, s.Set(KeyIsLogin, v))
		assert.False(t, MarkerSet(s), "value %q", v)
	}
	for _, v := range []string{"true", "1", "yes"} {
		require.NoError(t, s.Set(KeyIsLogin, v))
		assert.True(t, MarkerSet(s), "value %q", v)
	}
}
