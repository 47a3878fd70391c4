package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/houzhh15/mt-console/internal/fakebackend"
	"github.com/houzhh15/mt-console/pkg/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

// ============================================================================
// Test Doubles
// ============================================================================

type fakeRecorder struct {
	mu            sync.Mutex
	calls         []string
	notifications []string
}

func (f *fakeRecorder) ObserveCall(method, route, outcome string, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+" "+route+" "+outcome)
}

func (f *fakeRecorder) ObserveNotification(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, kind)
}

func newTestClient(baseURL string, store storage.Store) (*Client, *RecordingNotifier) {
	n := &RecordingNotifier{}
	opts := []Option{WithNotifier(n)}
	if store != nil {
		opts = append(opts, WithStore(store))
	}
	return New(Config{BaseURL: baseURL}, opts...), n
}

// envelopeServer 返回固定响应的测试服务器
func envelopeServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ============================================================================
// Request stages
// ============================================================================

func TestSend_AttachesBearerToken(t *testing.T) {
	backend := fakebackend.Start(t)
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyToken, "abc.def.ghi"))

	c, _ := newTestClient(backend.URL(), store)
	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/api/chat/sessions"})
	require.NoError(t, err)

	last := backend.Last()
	assert.Equal(t, "Bearer abc.def.ghi", last.Header.Get("Authorization"))
	assert.NotEmpty(t, last.Header.Get(HeaderRequestID))
	assert.Equal(t, "application/json", last.Header.Get("Content-Type"))
}

func TestSend_NoAuthorizationForEmptyCredential(t *testing.T) {
	for _, token := range []string{"", "null", "undefined"} {
		t.Run("token="+token, func(t *testing.T) {
			backend := fakebackend.Start(t)
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(storage.KeyToken, token))

			// 描述中携带的旧 Authorization 头也必须被移除
			c, _ := newTestClient(backend.URL(), store)
			_, err := c.Send(context.Background(), Descriptor{
				Method:  http.MethodGet,
				Path:    "/api/user/list",
				Headers: map[string]string{"Authorization": "Bearer stale"},
			})
			require.NoError(t, err)
			assert.Empty(t, backend.Last().Header.Get("Authorization"))
		})
	}
}

func TestSend_NoStoreNoAuthorization(t *testing.T) {
	backend := fakebackend.Start(t)
	c, _ := newTestClient(backend.URL(), nil)
	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/tool/list"})
	require.NoError(t, err)
	assert.Empty(t, backend.Last().Header.Get("Authorization"))
}

func TestSend_CustomRequestStageRunsAfterDefaults(t *testing.T) {
	backend := fakebackend.Start(t)
	c := New(Config{BaseURL: backend.URL()}, WithRequestStages(StaticHeaderStage("X-Console", "mtctl")))
	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/tool/list"})
	require.NoError(t, err)
	assert.Equal(t, "mtctl", backend.Last().Header.Get("X-Console"))
}

func TestSend_RequestStageFailure(t *testing.T) {
	backend := fakebackend.Start(t)
	n := &RecordingNotifier{}
	c := New(Config{BaseURL: backend.URL()}, WithNotifier(n), WithRequestStages(func(*http.Request) error {
		return errors.New("boom")
	}))
	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/tool/list"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequest))
	assert.Empty(t, backend.Requests())
	assert.Len(t, n.All(), 1)
}

// ============================================================================
// Envelope unwrapping
// ============================================================================

func TestSend_UnwrapsData(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":200,"data":[{"id":1},{"id":2}],"message":"ok"}`)
	c, n := newTestClient(srv.URL, nil)

	data, err := c.Send(context.Background(), Descriptor{
		Method: http.MethodGet,
		Path:   "/api/user/list",
		Query:  map[string]any{"current": 1, "size": 1},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(data))
	assert.Empty(t, n.All())
}

func TestSend_QueryEncoding(t *testing.T) {
	backend := fakebackend.Start(t)
	c, _ := newTestClient(backend.URL(), nil)
	allowed := 1
	var missing *int

	_, err := c.Send(context.Background(), Descriptor{
		Method: http.MethodGet,
		Path:   "/api/db/schema/3/tables",
		Query:  map[string]any{"current": 1, "size": 10, "allowed": &allowed, "skip": missing, "nil": nil},
	})
	require.NoError(t, err)

	q := backend.Last().Query
	assert.Equal(t, "1", q.Get("current"))
	assert.Equal(t, "10", q.Get("size"))
	assert.Equal(t, "1", q.Get("allowed"))
	assert.False(t, q.Has("skip"))
	assert.False(t, q.Has("nil"))
}

func TestSend_EnvelopeFailure(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
		code    int
	}{
		{"message field", `{"code":500,"message":"db down"}`, "db down", 500},
		{"msg field", `{"code":400,"msg":"问题不能为空"}`, "问题不能为空", 400},
		{"fallback", `{"code":403}`, "请求失败", 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := envelopeServer(t, http.StatusOK, tt.body)
			c, n := newTestClient(srv.URL, nil)

			data, err := c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/api/user/list"})
			require.Error(t, err)
			assert.Nil(t, data)
			assert.Equal(t, tt.message, err.Error())
			assert.True(t, errors.Is(err, ErrEnvelope))

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, http.StatusOK, apiErr.Status)
			assert.Equal(t, "/api/user/list", apiErr.Path)

			notes := n.All()
			require.Len(t, notes, 1)
			assert.Equal(t, tt.message, notes[0].Message)
			assert.Equal(t, KindEnvelope, notes[0].Kind)
		})
	}
}

func TestSend_MalformedEnvelope(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `<html>`)
	c, _ := newTestClient(srv.URL, nil)
	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/api/user/list"})
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
}

// ============================================================================
// Transport classification
// ============================================================================

func TestSend_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, n := newTestClient(url, nil)
	var (
		data json.RawMessage
		err  error
	)
	assert.NotPanics(t, func() {
		data, err = c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/api/user/list"})
	})
	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "网络连接失败")

	notes := n.All()
	require.Len(t, notes, 1)
	assert.Equal(t, KindNetwork, notes[0].Kind)
}

func TestSend_HTTPStatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"not found", http.StatusNotFound, `{}`, KindHTTPStatus, "请求的接口不存在"},
		{"server error", http.StatusInternalServerError, `{"code":500,"message":"ignored"}`, KindHTTPStatus, "服务器内部错误"},
		{"bad gateway", http.StatusBadGateway, ``, KindHTTPStatus, "服务器内部错误"},
		{"unauthorized", http.StatusUnauthorized, `{}`, KindUnauthorized, "登录已过期，请重新登录"},
		{"unauthorized with message", http.StatusUnauthorized, `{"code":401,"message":"token invalid"}`, KindUnauthorized, "token invalid"},
		{"unauthorized with msg", http.StatusUnauthorized, `{"code":401,"msg":"账号已禁用"}`, KindUnauthorized, "账号已禁用"},
		{"bad request with message", http.StatusBadRequest, `{"code":400,"message":"名称已存在"}`, KindHTTPStatus, "名称已存在"},
		{"bad request without message", http.StatusBadRequest, `oops`, KindHTTPStatus, "网络请求失败"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := envelopeServer(t, tt.status, tt.body)
			c, n := newTestClient(srv.URL, nil)

			_, err := c.Send(context.Background(), Descriptor{Method: http.MethodPost, Path: "/api/db/config", Body: map[string]any{"name": "x"}})
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.message, err.Error())

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Len(t, n.All(), 1)
		})
	}
}

func TestSend_Timeout(t *testing.T) {
	backend := fakebackend.Start(t)
	backend.Delay(http.MethodPost, "/api/data-question/ask", 2*time.Second)
	c, n := newTestClient(backend.URL(), nil)

	start := time.Now()
	_, err := c.Send(context.Background(), Descriptor{
		Method:  http.MethodPost,
		Path:    "/api/data-question/ask",
		Body:    map[string]any{"question": "q"},
		Timeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "请求超时", err.Error())
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Len(t, n.All(), 1)
}

func TestSend_CallerCancelDoesNotNotify(t *testing.T) {
	backend := fakebackend.Start(t)
	backend.Delay(http.MethodGet, "/api/chat/sessions", 2*time.Second)
	c, n := newTestClient(backend.URL(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := c.Send(ctx, Descriptor{Method: http.MethodGet, Path: "/api/chat/sessions"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCanceled))
	assert.Empty(t, n.All())
}

func TestSend_QuietDescriptorDoesNotNotify(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":500,"msg":"数据库连接失败"}`)
	c, n := newTestClient(srv.URL, nil)

	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodPost, Path: "/api/data-question/ask", Quiet: true})
	require.Error(t, err)
	assert.Equal(t, "数据库连接失败", err.Error())
	assert.Empty(t, n.All())
}

func TestSend_InvalidDescriptor(t *testing.T) {
	c, n := newTestClient("http://127.0.0.1:1", nil)

	_, err := c.Send(context.Background(), Descriptor{Method: "PATCH", Path: "/api/user/1"})
	assert.True(t, errors.Is(err, ErrRequest))

	_, err = c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "http://evil/api"})
	assert.True(t, errors.Is(err, ErrRequest))

	assert.Len(t, n.All(), 2)
}

// ============================================================================
// Bodies, headers and decoding
// ============================================================================

func TestSend_JSONBody(t *testing.T) {
	backend := fakebackend.Start(t)
	c, _ := newTestClient(backend.URL(), nil)

	_, err := c.Send(context.Background(), Descriptor{
		Method: http.MethodPut,
		Path:   "/api/chat/sessions/7/title",
		Body:   map[string]string{"title": "月度报表"},
	})
	require.NoError(t, err)
	last := backend.Last()
	assert.Equal(t, http.MethodPut, last.Method)
	assert.JSONEq(t, `{"title":"月度报表"}`, string(last.Body))
}

func TestSend_MultipartBody(t *testing.T) {
	backend := fakebackend.Start(t)
	c, _ := newTestClient(backend.URL(), nil)

	_, err := c.Send(context.Background(), Descriptor{
		Method: http.MethodPost,
		Path:   "/knowledge/3/upload",
		Body: MultipartBody{
			Fields: map[string]string{"description": "manual"},
			Files:  []FilePart{{Field: "file", FileName: "guide.md", Content: strings.NewReader("# guide")}},
		},
	})
	require.NoError(t, err)

	last := backend.Last()
	mediaType, params, err := mime.ParseMediaType(last.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	assert.NotEmpty(t, params["boundary"])
	assert.Contains(t, string(last.Body), "guide.md")
	assert.Contains(t, string(last.Body), "# guide")
}

func TestDo_DecodesTypedData(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":200,"data":{"records":[{"id":5,"name":"orders"}],"total":1}}`)
	c, _ := newTestClient(srv.URL, nil)

	type page struct {
		Records []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"records"`
		Total int64 `json:"total"`
	}
	got, err := Do[page](context.Background(), c, Descriptor{Method: http.MethodGet, Path: "/api/db/configs"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Total)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "orders", got.Records[0].Name)
}

func TestDo_NullData(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":200,"data":null}`)
	c, _ := newTestClient(srv.URL, nil)
	got, err := Do[map[string]any](context.Background(), c, Descriptor{Method: http.MethodDelete, Path: "/tool/1"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDo_DecodeMismatch(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":200,"data":"not-a-number"}`)
	c, _ := newTestClient(srv.URL, nil)
	_, err := Do[int](context.Background(), c, Descriptor{Method: http.MethodGet, Path: "/api/db/schema/1/status"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestDo_DecodeMismatchNotifiesOnce(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":200,"data":{"id":"abc"}}`)
	rec := &fakeRecorder{}
	n := &RecordingNotifier{}
	c := New(Config{BaseURL: srv.URL}, WithNotifier(n), WithMetrics(rec))

	type tool struct {
		ID int64 `json:"id"`
	}
	got, err := Do[*tool](context.Background(), c, Descriptor{Method: http.MethodGet, Path: "/tool/3", Route: "/tool/{id}"})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, KindDecode, KindOf(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "/tool/3", apiErr.Path)

	require.Len(t, n.All(), 1)
	assert.Equal(t, KindDecode, n.All()[0].Kind)
	assert.Equal(t, []string{"GET /tool/{id} decode"}, rec.calls)
	assert.Equal(t, []string{"decode"}, rec.notifications)
}

func TestDo_QuietDecodeMismatchDoesNotNotify(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":200,"data":[1,2]}`)
	c, n := newTestClient(srv.URL, nil)
	_, err := Do[map[string]any](context.Background(), c, Descriptor{Method: http.MethodGet, Path: "/api/data-question/health", Quiet: true})
	require.Error(t, err)
	assert.Empty(t, n.All())
}

// ============================================================================
// Localization, metrics and concurrency
// ============================================================================

func TestSend_EnglishMessages(t *testing.T) {
	srv := envelopeServer(t, http.StatusNotFound, `{}`)
	c := New(Config{BaseURL: srv.URL, Lang: "en-US"})
	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodGet, Path: "/missing"})
	require.Error(t, err)
	assert.Equal(t, "The requested endpoint does not exist", err.Error())
}

func TestSend_RecordsMetrics(t *testing.T) {
	srv := envelopeServer(t, http.StatusOK, `{"code":500,"message":"db down"}`)
	rec := &fakeRecorder{}
	c := New(Config{BaseURL: srv.URL}, WithMetrics(rec))

	_, err := c.Send(context.Background(), Descriptor{Method: http.MethodPost, Path: "/api/db/config/9/verify", Route: "/api/db/config/{id}/verify"})
	require.Error(t, err)
	assert.Equal(t, []string{"POST /api/db/config/{id}/verify envelope"}, rec.calls)
	assert.Equal(t, []string{"envelope"}, rec.notifications)
}

func TestSend_ConcurrentCallsSettleIndependently(t *testing.T) {
	backend := fakebackend.Start(t)
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyToken, "tok"))
	c, n := newTestClient(backend.URL(), store)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Send(context.Background(), Descriptor{Method: http.MethodPost, Path: "/api/chat/sessions", Body: map[string]any{"title": "dup"}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, backend.Requests(), 20)
	assert.Empty(t, n.All())
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{BaseURL: "http://example.com/"})
	assert.Equal(t, "http://example.com", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.Timeout())
	assert.Nil(t, c.Store())

	c = New(Config{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}
