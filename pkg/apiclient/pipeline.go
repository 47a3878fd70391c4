package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/houzhh15/mt-console/pkg/storage"
)

// RequestStage 请求阶段，在发出调用前按顺序修改请求
type RequestStage func(req *http.Request) error

// Response 响应阶段之间传递的状态
// Data 由信封阶段填充；没有信封阶段时为原始响应体
type Response struct {
	Descriptor Descriptor
	StatusCode int
	Header     http.Header
	Body       []byte
	Data       json.RawMessage
}

// ResponseStage 响应阶段，返回 *Error 表示分类失败
type ResponseStage func(resp *Response) error

// HeaderRequestID 请求关联 ID 头
const HeaderRequestID = "X-Request-ID"

// AuthStage 从存储中读取凭证注入 Bearer 头
// 凭证缺失或为 "null"/"undefined" 时移除 Authorization，避免发送残留的头
func AuthStage(store storage.Store) RequestStage {
	return func(req *http.Request) error {
		token := storage.GetString(store, storage.KeyToken)
		if storage.IsEmptyCredential(token) {
			req.Header.Del("Authorization")
			return nil
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// RequestIDStage 为请求注入 X-Request-ID，已存在时保留
func RequestIDStage() RequestStage {
	return func(req *http.Request) error {
		if req.Header.Get(HeaderRequestID) == "" {
			req.Header.Set(HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}

// StaticHeaderStage 设置固定请求头
func StaticHeaderStage(key, value string) RequestStage {
	return func(req *http.Request) error {
		req.Header.Set(key, value)
		return nil
	}
}

// EnvelopeStage 解包 {code, data, message} 信封
// code == 200 时 Data 为信封中的 data，否则返回 KindEnvelope 错误
func EnvelopeStage(msgs *Messages) ResponseStage {
	return func(resp *Response) error {
		var env Envelope
		if err := json.Unmarshal(resp.Body, &env); err != nil {
			return &Error{
				Kind:    KindDecode,
				Status:  resp.StatusCode,
				Message: msgs.Text(MsgDecodeFailed),
				Cause:   fmt.Errorf("parse envelope: %w", err),
			}
		}
		if env.Code != SuccessCode {
			msg := env.Text()
			if msg == "" {
				msg = msgs.Text(MsgRequestFailed)
			}
			return &Error{
				Kind:    KindEnvelope,
				Status:  resp.StatusCode,
				Code:    env.Code,
				Message: msg,
			}
		}
		resp.Data = env.Data
		return nil
	}
}
