package apiclient

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Notification 一条面向用户的失败通知
type Notification struct {
	Kind    Kind
	Method  string
	Path    string
	Message string
}

// Notifier 外部通知协作者（控制台的 toast / CLI 的 stderr）
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc 函数适配器
type NotifierFunc func(n Notification)

// Notify 实现 Notifier
func (f NotifierFunc) Notify(n Notification) { f(n) }

// NopNotifier 丢弃所有通知
type NopNotifier struct{}

// Notify 实现 Notifier
func (NopNotifier) Notify(Notification) {}

// WriterNotifier 将通知逐行写入 writer，CLI 使用 stderr
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier 创建写入型通知器
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify 实现 Notifier
func (n *WriterNotifier) Notify(notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "✖ %s\n", notification.Message)
}

// LogNotifier 以 warn 级别记录通知
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify 实现 Notifier
func (n LogNotifier) Notify(notification Notification) {
	if n.Logger == nil {
		return
	}
	n.Logger.Warn("notification",
		"kind", string(notification.Kind),
		"method", notification.Method,
		"path", notification.Path,
		"message", notification.Message,
	)
}

// RecordingNotifier 记录收到的通知，供测试与诊断使用
type RecordingNotifier struct {
	mu   sync.Mutex
	list []Notification
}

// Notify 实现 Notifier
func (r *RecordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

// All 返回已收到通知的副本
func (r *RecordingNotifier) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.list))
	copy(out, r.list)
	return out
}
