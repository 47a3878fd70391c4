package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/houzhh15/mt-console/pkg/apiclient"
)

// QuestionAPI 数据问答，调用耗时较长，使用独立的超时
type QuestionAPI struct {
	c       *apiclient.Client
	timeout time.Duration
}

// NewQuestionAPI timeout 为 0 时使用 apiclient.LongTimeout
func NewQuestionAPI(c *apiclient.Client, timeout time.Duration) *QuestionAPI {
	if timeout <= 0 {
		timeout = apiclient.LongTimeout
	}
	return &QuestionAPI{c: c, timeout: timeout}
}

// Ask 发送问题；失败不返回 error，而是通过 AskResult.Error 给出展示文本
func (q *QuestionAPI) Ask(ctx context.Context, req AskRequest) AskResult {
	data, err := q.c.Send(ctx, apiclient.Descriptor{
		Method:  http.MethodPost,
		Path:    "/api/data-question/ask",
		Body:    req,
		Timeout: q.timeout,
		Quiet:   true,
	})
	msgs := q.c.Messages()
	if err != nil {
		text := err.Error()
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Kind == apiclient.KindEnvelope && text == msgs.Text(apiclient.MsgRequestFailed) {
			text = msgs.Text(apiclient.MsgQueryFailed)
		}
		return AskResult{Error: text}
	}
	if emptyAnswer(data) {
		return AskResult{Error: msgs.Text(apiclient.MsgQueryFailed)}
	}
	return AskResult{Success: true, Data: data}
}

// emptyAnswer data 缺失、为 null、false、0 或空字符串时视为没有结果
func emptyAnswer(data json.RawMessage) bool {
	if len(data) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return true
	}
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0
	case string:
		return x == ""
	}
	return false
}

// Health 服务健康检查，失败时返回 nil
func (q *QuestionAPI) Health(ctx context.Context) json.RawMessage {
	data, err := q.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/data-question/health",
		Quiet:  true,
	})
	if err != nil {
		return nil
	}
	return data
}

// DefaultProbePaths 连通性排查时默认探测的接口
var DefaultProbePaths = []string{
	"/api/user/list",
	"/api/db/configs",
	"/api/chat/sessions",
}

// probeConcurrency 同时探测的路径数
const probeConcurrency = 4

// Diagnostics 后端连通性排查，结果不触发通知
type Diagnostics struct {
	c *apiclient.Client
}

func NewDiagnostics(c *apiclient.Client) *Diagnostics {
	return &Diagnostics{c: c}
}

// TestBackendConnection 请求一页用户列表，只要收到 2xx 响应即视为连通
func (d *Diagnostics) TestBackendConnection(ctx context.Context) ConnectionResult {
	p := d.probe(ctx, "/api/user/list", map[string]any{"current": 1, "size": 1})
	switch {
	case p.OK:
		return ConnectionResult{Success: true, Message: "后端服务连接正常"}
	case p.Status > 0:
		return ConnectionResult{Message: fmt.Sprintf("后端服务响应异常: %d", p.Status)}
	default:
		return ConnectionResult{Message: "无法连接到后端服务，请检查：\n1. 后端服务是否启动\n2. 端口8080是否被占用\n3. 防火墙设置"}
	}
}

// TestAPIPaths 并发探测各路径，结果顺序与 paths 一致；paths 为空时使用 DefaultProbePaths
func (d *Diagnostics) TestAPIPaths(ctx context.Context, paths []string) []PathProbe {
	if len(paths) == 0 {
		paths = DefaultProbePaths
	}
	results := make([]PathProbe, len(paths))

	var g errgroup.Group
	g.SetLimit(probeConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = d.probe(ctx, path, nil)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// probe 信封失败也说明 HTTP 层可达，按 2xx 处理
func (d *Diagnostics) probe(ctx context.Context, path string, query map[string]any) PathProbe {
	_, err := d.c.Send(ctx, apiclient.Descriptor{Method: http.MethodGet, Path: path, Query: query, Quiet: true})
	if err == nil {
		return PathProbe{Path: path, Status: http.StatusOK, OK: true}
	}
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return PathProbe{Path: path, Error: err.Error()}
	}
	switch apiErr.Kind {
	case apiclient.KindEnvelope, apiclient.KindDecode:
		status := apiErr.Status
		if status == 0 {
			status = http.StatusOK
		}
		return PathProbe{Path: path, Status: status, OK: true}
	case apiclient.KindHTTPStatus, apiclient.KindUnauthorized:
		return PathProbe{Path: path, Status: apiErr.Status, Error: apiErr.Message}
	default:
		return PathProbe{Path: path, Error: apiErr.Message}
	}
}
