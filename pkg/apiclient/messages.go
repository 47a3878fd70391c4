package apiclient

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 通知消息键，中文为默认语言
const (
	MsgRequestFailed = "request failed"
	MsgNetworkError  = "network error"
	MsgTimeout       = "request timeout"
	MsgNotFound      = "endpoint not found"
	MsgServerError   = "server error"
	MsgUnauthorized  = "unauthorized"
	MsgHTTPFailed    = "http request failed"
	MsgDecodeFailed  = "decode failed"
	MsgInvalidReq    = "invalid request"
	MsgQueryFailed   = "query failed"
)

var translations = map[string][2]string{
	// key: {zh, en}
	MsgRequestFailed: {"请求失败", "Request failed"},
	MsgNetworkError:  {"网络连接失败，请检查后端服务是否启动", "Network connection failed, check that the backend service is running"},
	MsgTimeout:       {"请求超时", "Request timed out"},
	MsgNotFound:      {"请求的接口不存在", "The requested endpoint does not exist"},
	MsgServerError:   {"服务器内部错误", "Internal server error"},
	MsgUnauthorized:  {"登录已过期，请重新登录", "Session expired, please log in again"},
	MsgHTTPFailed:    {"网络请求失败", "Network request failed"},
	MsgDecodeFailed:  {"响应数据解析失败", "Failed to parse response data"},
	MsgInvalidReq:    {"请求参数无效", "Invalid request"},
	MsgQueryFailed:   {"查询失败", "Query failed"},
}

func init() {
	for key, tr := range translations {
		_ = message.SetString(language.Chinese, key, tr[0])
		_ = message.SetString(language.English, key, tr[1])
	}
}

// ParseLang 将配置中的语言名映射为支持的语言，未知值回退到中文
func ParseLang(s string) language.Tag {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "en") {
		return language.English
	}
	return language.Chinese
}

// Messages 按语言输出通知文本
type Messages struct {
	p *message.Printer
}

// NewMessages 创建指定语言的消息打印器
func NewMessages(tag language.Tag) *Messages {
	return &Messages{p: message.NewPrinter(tag)}
}

// Text 返回键对应的本地化文本
func (m *Messages) Text(key string) string {
	return m.p.Sprintf(key)
}
