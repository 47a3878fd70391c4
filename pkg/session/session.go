// Package session 管理登录态：凭证、用户信息与登录标记的写入和清除。
// 登录成功总是写入登录标记；后端返回令牌时同时写入凭证，
// 未返回令牌（仅 Cookie 会话）时清除旧凭证。标记决定导航，凭证决定 Authorization 头。
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/houzhh15/mt-console/pkg/storage"
)

// 错误定义
var (
	// ErrNoToken 未保存凭证
	ErrNoToken = errors.New("no credential stored")

	// ErrOpaqueToken 凭证不是 JWT，无法解析声明
	ErrOpaqueToken = errors.New("credential is not a JWT")
)

// User 缓存在本地的用户信息
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
	Status   int    `json:"status"`
}

// Claims 从凭证中解析出的信息（未验签，仅用于展示）
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired 是否已过期；无过期时间时返回 false
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Manager 登录态管理器
type Manager struct {
	store storage.Store
}

// NewManager 创建管理器
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// Store 返回底层存储
func (m *Manager) Store() storage.Store {
	return m.store
}

// Persist 登录成功后写入凭证、用户信息与登录标记
func (m *Manager) Persist(token string, user *User) error {
	if storage.IsEmptyCredential(token) {
		if err := m.store.Delete(storage.KeyToken); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
	} else if err := m.store.Set(storage.KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	if user == nil {
		// 未返回用户信息时清除上一次登录的记录
		if err := m.store.Delete(storage.KeyUser); err != nil {
			return fmt.Errorf("clear user: %w", err)
		}
	} else {
		b, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if err := m.store.Set(storage.KeyUser, string(b)); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
	}

	if err := m.store.Set(storage.KeyIsLogin, "true"); err != nil {
		return fmt.Errorf("save login marker: %w", err)
	}
	return nil
}

// Logout 清除凭证、用户信息与登录标记，尽量全部清除后再返回错误
func (m *Manager) Logout() error {
	var errs []error
	for _, key := range []string{storage.KeyToken, storage.KeyUser, storage.KeyIsLogin} {
		if err := m.store.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// IsLoggedIn 读取登录标记，每次调用都重新读取存储
func (m *Manager) IsLoggedIn() bool {
	return storage.MarkerSet(m.store)
}

// Token 返回有效凭证，无效或缺失时返回空串
func (m *Manager) Token() string {
	t := storage.GetString(m.store, storage.KeyToken)
	if storage.IsEmptyCredential(t) {
		return ""
	}
	return t
}

// CurrentUser 返回缓存的用户信息，未登录时返回 nil
func (m *Manager) CurrentUser() (*User, error) {
	raw := storage.GetString(m.store, storage.KeyUser)
	if raw == "" || raw == "null" || raw == "undefined" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("parse cached user: %w", err)
	}
	return &u, nil
}

// Claims 解析凭证中的声明，不做签名校验
func (m *Manager) Claims() (*Claims, error) {
	token := m.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}
	c := &Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
