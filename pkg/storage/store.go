// Package storage 提供客户端本地持久化状态（凭证、用户信息、登录标记）的键值存储抽象。
package storage

import "errors"

// 持久化状态使用的键
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyIsLogin = "isLogin"
)

// ErrClosed 存储已关闭
var ErrClosed = errors.New("storage is closed")

// Store 键值存储接口
// Get 返回值、是否存在以及读取错误；Delete 对不存在的键不报错
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// IsEmptyCredential 判断凭证是否视为"无凭证"
// 空串以及字面量 "null"/"undefined" 都视为无效
func IsEmptyCredential(v string) bool {
	switch v {
	case "", "null", "undefined":
		return true
	}
	return false
}

// GetString 读取键值，不存在或出错时返回空串
func GetString(s Store, key string) string {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return ""
	}
	return v
}

// MarkerSet 判断登录标记是否处于已登录状态
// 标记不存在、读取失败或为 ""/"false"/"0"/"null"/"undefined" 时视为未登录
func MarkerSet(s Store) bool {
	v := GetString(s, KeyIsLogin)
	if IsEmptyCredential(v) {
		return false
	}
	switch v {
	case "false", "0":
		return false
	}
	return true
}
