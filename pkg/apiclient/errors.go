package apiclient

import (
	"errors"
	"fmt"
)

// Kind 失败分类
type Kind string

const (
	// KindRequest 请求描述无效或请求阶段失败，未发出网络调用
	KindRequest Kind = "request"
	// KindNetwork 未收到任何响应（连接拒绝、DNS 失败等）
	KindNetwork Kind = "network"
	// KindTimeout 超过客户端或单次调用的超时时间
	KindTimeout Kind = "timeout"
	// KindCanceled 调用方取消了 context
	KindCanceled Kind = "canceled"
	// KindUnauthorized HTTP 401
	KindUnauthorized Kind = "unauthorized"
	// KindHTTPStatus 收到非 2xx 响应（404、5xx 等）
	KindHTTPStatus Kind = "http_status"
	// KindEnvelope HTTP 成功但响应信封 code != 200
	KindEnvelope Kind = "envelope"
	// KindDecode 响应体无法解析
	KindDecode Kind = "decode"
)

// 与 errors.Is 配合使用的哨兵错误
var (
	ErrRequest      = errors.New("invalid request")
	ErrNetwork      = errors.New("network error")
	ErrTimeout      = errors.New("request timeout")
	ErrCanceled     = errors.New("request canceled")
	ErrUnauthorized = errors.New("unauthorized")
	ErrHTTPStatus   = errors.New("http status error")
	ErrEnvelope     = errors.New("envelope error")
	ErrDecode       = errors.New("decode error")
)

var kindSentinels = map[Kind]error{
	KindRequest:      ErrRequest,
	KindNetwork:      ErrNetwork,
	KindTimeout:      ErrTimeout,
	KindCanceled:     ErrCanceled,
	KindUnauthorized: ErrUnauthorized,
	KindHTTPStatus:   ErrHTTPStatus,
	KindEnvelope:     ErrEnvelope,
	KindDecode:       ErrDecode,
}

// Error 一次后端调用的分类失败
// Error() 只返回面向用户的 Message，底层原因通过 Unwrap 获取
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int    // HTTP 状态码，未收到响应时为 0
	Code    int    // 信封 code，仅 KindEnvelope 有意义
	Message string // 面向用户的消息
	Cause   error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Unwrap 实现错误链支持
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 使 errors.Is(err, ErrNetwork) 等按分类匹配
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Detail 返回带分类与底层原因的调试描述，用于日志
func (e *Error) Detail() string {
	s := fmt.Sprintf("[%s] %s %s", e.Kind, e.Method, e.Path)
	if e.Status != 0 {
		s += fmt.Sprintf(" status=%d", e.Status)
	}
	if e.Kind == KindEnvelope {
		s += fmt.Sprintf(" code=%d", e.Code)
	}
	s += ": " + e.Message
	if e.Cause != nil {
		s += fmt.Sprintf(" (%v)", e.Cause)
	}
	return s
}

// KindOf 返回错误的分类，非 *Error 返回空串
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
