// Package apiclient 是控制台访问后端的唯一出口：
// 负责基础地址、超时、默认头，按顺序执行请求/响应阶段，并对失败进行分类与通知。
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/houzhh15/mt-console/pkg/logger"
	"github.com/houzhh15/mt-console/pkg/metrics"
	"github.com/houzhh15/mt-console/pkg/storage"
)

// 默认值
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
	// LongTimeout 数据问答等长耗时调用的超时
	LongTimeout = 240 * time.Second
)

// Config 客户端配置
type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
	// Lang 通知语言: zh / en
	Lang string
}

// Client HTTP 客户端封装，可并发使用
type Client struct {
	baseURL    string
	timeout    time.Duration
	headers    map[string]string
	httpClient *http.Client
	store      storage.Store
	notifier   Notifier
	logger     *slog.Logger
	recorder   metrics.Recorder
	msgs       *Messages

	extraStages    []RequestStage
	requestStages  []RequestStage
	responseStages []ResponseStage
}

// Option 客户端选项
type Option func(*Client)

// WithStore 注入凭证存储；未注入时不会附加 Authorization 头
func WithStore(s storage.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithNotifier 注入失败通知器
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n == nil {
			n = NopNotifier{}
		}
		c.notifier = n
	}
}

// WithLogger 注入 logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithMetrics 注入指标记录器
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithRequestStages 在默认请求阶段之后追加阶段
func WithRequestStages(stages ...RequestStage) Option {
	return func(c *Client) { c.extraStages = append(c.extraStages, stages...) }
}

// WithResponseStages 替换默认响应阶段（默认仅信封解包）
func WithResponseStages(stages ...ResponseStage) Option {
	return func(c *Client) { c.responseStages = stages }
}

// New 创建客户端
func New(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	msgs := NewMessages(ParseLang(cfg.Lang))
	c := &Client{
		baseURL:  baseURL,
		timeout:  timeout,
		headers:  headers,
		notifier: NopNotifier{},
		msgs:     msgs,
	}
	c.responseStages = []ResponseStage{EnvelopeStage(msgs)}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		// 错误被忽略：cookiejar.New 仅在 Options 非法时出错
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		c.httpClient = &http.Client{Jar: jar}
	}
	if c.logger == nil {
		c.logger = logger.L()
	}

	c.requestStages = []RequestStage{RequestIDStage()}
	if c.store != nil {
		c.requestStages = append(c.requestStages, AuthStage(c.store))
	}
	c.requestStages = append(c.requestStages, c.extraStages...)
	return c
}

// BaseURL 返回基础地址
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout 返回默认超时
func (c *Client) Timeout() time.Duration { return c.timeout }

// Store 返回注入的存储，可能为 nil
func (c *Client) Store() storage.Store { return c.store }

// Messages 返回客户端使用的本地化消息
func (c *Client) Messages() *Messages { return c.msgs }

// Send 执行一次调用：构建请求 → 请求阶段 → 网络调用 → 响应阶段
// 成功返回信封中的 data；失败返回 *Error，且已通过 Notifier 通知一次
func (c *Client) Send(ctx context.Context, d Descriptor) (json.RawMessage, error) {
	return c.call(ctx, d, nil)
}

// call 在 Send 的基础上可选地解码 data，解码失败同样走统一的通知、日志与指标
func (c *Client) call(ctx context.Context, d Descriptor, decode func(json.RawMessage) *Error) (json.RawMessage, error) {
	start := time.Now()
	data, status, rid, err := c.send(ctx, d)
	if err == nil && decode != nil {
		if decodeErr := decode(data); decodeErr != nil {
			decodeErr.Status = status
			err = decodeErr
		}
	}

	outcome := "ok"
	errMsg := ""
	if err != nil {
		apiErr := err.(*Error)
		apiErr.Method, apiErr.Path = d.Method, d.Path
		outcome = string(apiErr.Kind)
		errMsg = apiErr.Detail()
		if apiErr.Kind != KindCanceled && !d.Quiet {
			c.notifier.Notify(Notification{Kind: apiErr.Kind, Method: d.Method, Path: d.Path, Message: apiErr.Message})
			if c.recorder != nil {
				c.recorder.ObserveNotification(string(apiErr.Kind))
			}
		}
	}

	elapsed := time.Since(start)
	logger.LogAPICall(c.logger, rid, d.Method, d.Path, status, elapsed.Milliseconds(), outcome, errMsg)
	if c.recorder != nil {
		c.recorder.ObserveCall(d.Method, d.route(), outcome, elapsed.Seconds())
	}

	if err != nil {
		return nil, err
	}
	return data, nil
}

// send 返回的 error 总是 *Error
func (c *Client) send(ctx context.Context, d Descriptor) (json.RawMessage, int, string, error) {
	if err := d.validate(); err != nil {
		return nil, 0, "", &Error{Kind: KindRequest, Message: c.msgs.Text(MsgInvalidReq), Cause: err}
	}

	timeout := c.timeout
	if d.Timeout > 0 {
		timeout = d.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.buildRequest(ctx, d)
	if err != nil {
		return nil, 0, "", &Error{Kind: KindRequest, Message: c.msgs.Text(MsgInvalidReq), Cause: err}
	}
	for _, stage := range c.requestStages {
		if err := stage(req); err != nil {
			return nil, 0, req.Header.Get(HeaderRequestID), &Error{Kind: KindRequest, Message: c.msgs.Text(MsgRequestFailed), Cause: err}
		}
	}
	rid := req.Header.Get(HeaderRequestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, rid, c.classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, rid, c.classifyTransport(ctx, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, rid, c.classifyStatus(resp.StatusCode, body)
	}

	r := &Response{Descriptor: d, StatusCode: resp.StatusCode, Header: resp.Header, Body: body, Data: body}
	for _, stage := range c.responseStages {
		if err := stage(r); err != nil {
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				apiErr = &Error{Kind: KindDecode, Status: resp.StatusCode, Message: c.msgs.Text(MsgRequestFailed), Cause: err}
			}
			return nil, resp.StatusCode, rid, apiErr
		}
	}
	return r.Data, resp.StatusCode, rid, nil
}

func (c *Client) buildRequest(ctx context.Context, d Descriptor) (*http.Request, error) {
	u := c.baseURL + d.Path
	if qs := encodeQuery(d.Query); qs != "" {
		sep := "?"
		if strings.Contains(d.Path, "?") {
			sep = "&"
		}
		u += sep + qs
	}

	body, contentType, err := encodeBody(d.Body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// classifyTransport 未收到响应的失败：超时、取消或网络错误
func (c *Client) classifyTransport(ctx context.Context, err error) *Error {
	if errors.Is(err, context.Canceled) && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindCanceled, Message: c.msgs.Text(MsgRequestFailed), Cause: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: c.msgs.Text(MsgTimeout), Cause: err}
	}
	return &Error{Kind: KindNetwork, Message: c.msgs.Text(MsgNetworkError), Cause: err}
}

// classifyStatus 收到非 2xx 响应
func (c *Client) classifyStatus(status int, body []byte) *Error {
	e := &Error{Kind: KindHTTPStatus, Status: status, Cause: fmt.Errorf("HTTP %d", status)}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
		e.Message = c.msgs.Text(MsgUnauthorized)
		if env, ok := parseEnvelope(body); ok {
			e.Message = env.Text()
			e.Code = env.Code
		}
	case status == http.StatusNotFound:
		e.Message = c.msgs.Text(MsgNotFound)
	case status >= 500:
		e.Message = c.msgs.Text(MsgServerError)
	default:
		e.Message = c.msgs.Text(MsgHTTPFailed)
		if env, ok := parseEnvelope(body); ok {
			e.Message = env.Text()
			e.Code = env.Code
		}
	}
	return e
}

// parseEnvelope 错误响应体中带有消息时返回 true
func parseEnvelope(body []byte) (Envelope, bool) {
	var env Envelope
	if json.Unmarshal(body, &env) != nil || env.Text() == "" {
		return Envelope{}, false
	}
	return env, true
}

// Do 发送请求并将 data 解码为 T；data 为空或 null 时返回 T 的零值
// 解码失败与其他失败一样只通知一次并计入指标
func Do[T any](ctx context.Context, c *Client, d Descriptor) (T, error) {
	var out T
	_, err := c.call(ctx, d, func(raw json.RawMessage) *Error {
		if len(raw) == 0 || string(raw) == "null" {
			return nil
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return &Error{
				Kind:    KindDecode,
				Message: c.msgs.Text(MsgDecodeFailed),
				Cause:   fmt.Errorf("decode %s data: %w", d.Path, err),
			}
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
