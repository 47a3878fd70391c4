package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Descriptor 描述一次后端调用
// Path 为相对路径（以 / 开头），Route 为用于指标的路由模板，缺省取 Path
type Descriptor struct {
	Method  string
	Path    string
	Route   string
	Query   map[string]any
	Body    any
	Headers map[string]string
	// Timeout 覆盖客户端默认超时，0 表示使用默认值
	Timeout time.Duration
	// Quiet 失败时不通知，由调用方自行展示结果
	Quiet bool
}

// BodyEncoder 自定义请求体编码（如 multipart），返回内容及 Content-Type
type BodyEncoder interface {
	Encode() (io.Reader, string, error)
}

// Envelope 后端统一响应信封
// 部分接口使用 msg 字段代替 message
type Envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Msg     string          `json:"msg,omitempty"`
}

// Text 返回信封中的消息文本
func (e Envelope) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// SuccessCode 信封成功码
const SuccessCode = 200

func (d Descriptor) route() string {
	if d.Route != "" {
		return d.Route
	}
	return d.Path
}

func (d Descriptor) validate() error {
	switch d.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q", d.Method)
	}
	if !strings.HasPrefix(d.Path, "/") || strings.Contains(d.Path, "://") {
		return fmt.Errorf("path must be a relative URL segment: %q", d.Path)
	}
	return nil
}

// encodeQuery 将原始值映射编码为查询串，nil 值被跳过，键按字典序输出
func encodeQuery(q map[string]any) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := url.Values{}
	for _, k := range keys {
		v := q[k]
		if v == nil {
			continue
		}
		switch tv := v.(type) {
		case *int:
			if tv == nil {
				continue
			}
			values.Set(k, fmt.Sprint(*tv))
		case *string:
			if tv == nil {
				continue
			}
			values.Set(k, *tv)
		default:
			values.Set(k, fmt.Sprint(v))
		}
	}
	return values.Encode()
}

// encodeBody 返回请求体与 Content-Type，Content-Type 为空表示沿用默认值
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	if enc, ok := body.(BodyEncoder); ok {
		return enc.Encode()
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("marshal request body: %w", err)
	}
	return bytes.NewReader(data), "", nil
}

// FilePart multipart 中的文件字段
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// MultipartBody multipart/form-data 请求体，用于知识库文件上传
type MultipartBody struct {
	Fields map[string]string
	Files  []FilePart
}

// Encode 实现 BodyEncoder
func (m MultipartBody) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.FileName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
