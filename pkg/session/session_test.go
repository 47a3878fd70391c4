package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/mt-console/internal/fakebackend"
	"github.com/houzhh15/mt-console/pkg/storage"
)

// failingStore 删除总是失败的存储
type failingStore struct {
	*storage.MemoryStore
}

func (f failingStore) Delete(string) error { return errors.New("disk full") }

func TestPersistAndLogoutRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store)
	assert.False(t, m.IsLoggedIn())

	user := &User{ID: 1, Username: "admin", Nickname: "管理员", Status: 1}
	require.NoError(t, m.Persist("tok-1", user))

	assert.True(t, m.IsLoggedIn())
	assert.Equal(t, "tok-1", m.Token())
	got, err := m.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, user, got)

	require.NoError(t, m.Logout())
	assert.False(t, m.IsLoggedIn())
	assert.Equal(t, "", m.Token())
	got, err = m.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, key := range []string{storage.KeyToken, storage.KeyUser, storage.KeyIsLogin} {
		_, ok, err := store.Get(key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s should be cleared", key)
	}
}

func TestPersist_WithoutTokenClearsStaleCredential(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyToken, "old"))
	m := NewManager(store)

	require.NoError(t, m.Persist("", &User{ID: 2, Username: "ops"}))
	assert.True(t, m.IsLoggedIn())
	assert.Equal(t, "", m.Token())
	_, ok, _ := store.Get(storage.KeyToken)
	assert.False(t, ok)
}

func TestPersist_WithoutUserClearsStaleRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store)
	require.NoError(t, m.Persist("tok-admin", &User{ID: 1, Username: "admin"}))

	require.NoError(t, m.Persist("tok-bob", nil))
	assert.Equal(t, "tok-bob", m.Token())
	got, err := m.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, got)
	_, ok, err := store.Get(storage.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, m.IsLoggedIn())
}

func TestToken_SentinelValues(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store)
	for _, v := range []string{"null", "undefined"} {
		require.NoError(t, store.Set(storage.KeyToken, v))
		assert.Equal(t, "", m.Token())
	}
}

func TestIsLoggedIn_ReadsStoreEachTime(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store)

	require.NoError(t, store.Set(storage.KeyIsLogin, "true"))
	assert.True(t, m.IsLoggedIn())
	require.NoError(t, store.Delete(storage.KeyIsLogin))
	assert.False(t, m.IsLoggedIn())
}

func TestCurrentUser_Corrupt(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyUser, "{broken"))
	_, err := NewManager(store).CurrentUser()
	assert.Error(t, err)
}

func TestLogout_ReportsErrors(t *testing.T) {
	m := NewManager(failingStore{storage.NewMemoryStore()})
	err := m.Logout()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear token")
	assert.Contains(t, err.Error(), "clear isLogin")
}

func TestClaims(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store)

	_, err := m.Claims()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, store.Set(storage.KeyToken, "opaque-session-id"))
	_, err = m.Claims()
	assert.ErrorIs(t, err, ErrOpaqueToken)

	token, err := fakebackend.IssueToken("admin", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Set(storage.KeyToken, token))

	claims, err := m.Claims()
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(time.Now().Add(2*time.Hour)))
}
