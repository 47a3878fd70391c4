// Package fakebackend 提供测试用的后端替身：
// 记录收到的请求，按信封格式回显，并支持为指定路由预设响应。
package fakebackend

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 预置账号
const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

// Secret JWT 签名密钥
var Secret = []byte("fakebackend-secret")

// Recorded 一次被记录的请求
type Recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type scripted struct {
	status int
	body   any
	delay  time.Duration
}

// Backend 后端替身
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []Recorded
	scripts  map[string]scripted
}

// Start 启动后端替身，测试结束时自动关闭
func Start(tb testing.TB) *Backend {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{scripts: map[string]scripted{}}
	r := gin.New()
	r.Use(b.record(), b.script())

	r.POST("/api/user/login", b.handleLogin)
	r.POST("/api/data-question/ask", b.handleAsk)
	r.GET("/api/data-question/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"status": "UP"}})
	})
	r.NoRoute(b.echo)

	b.Server = httptest.NewServer(r)
	tb.Cleanup(b.Server.Close)
	return b
}

// URL 返回后端地址
func (b *Backend) URL() string {
	return b.Server.URL
}

// Respond 为 "METHOD /path" 预设 HTTP 状态与响应体
func (b *Backend) Respond(method, path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scripts[method+" "+path] = scripted{status: status, body: body}
}

// Delay 为 "METHOD /path" 预设延迟后再回显
func (b *Backend) Delay(method, path string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scripts[method+" "+path] = scripted{delay: d}
}

// Requests 返回全部已记录请求
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Recorded, len(b.requests))
	copy(out, b.requests)
	return out
}

// Last 返回最后一次请求，没有请求时返回零值
func (b *Backend) Last() Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Recorded{}
	}
	return b.requests[len(b.requests)-1]
}

func (b *Backend) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Query:  c.Request.URL.Query(),
			Header: c.Request.Header.Clone(),
			Body:   body,
		})
		b.mu.Unlock()
		c.Next()
	}
}

func (b *Backend) script() gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		s, ok := b.scripts[c.Request.Method+" "+c.Request.URL.Path]
		b.mu.Unlock()
		if !ok {
			c.Next()
			return
		}
		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if s.status == 0 {
			c.Next()
			return
		}
		if raw, ok := s.body.([]byte); ok {
			c.Data(s.status, "application/json", raw)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(s.status, s.body)
	}
}

// echo 以 code=200 信封回显请求
func (b *Backend) echo(c *gin.Context) {
	raw, _ := io.ReadAll(c.Request.Body)
	var body any
	if len(raw) > 0 {
		body = string(raw)
	}
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"query":  c.Request.URL.RawQuery,
			"body":   body,
		},
		"message": "success",
	})
}

func (b *Backend) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 400, "message": "参数错误"})
		return
	}
	if req.Username != AdminUsername || req.Password != AdminPassword {
		c.JSON(http.StatusOK, gin.H{"code": 401, "message": "用户名或密码错误"})
		return
	}
	token, err := IssueToken(req.Username, time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"token": token,
			"user": gin.H{
				"id":       1,
				"username": req.Username,
				"nickname": "管理员",
				"status":   1,
			},
		},
		"message": "登录成功",
	})
}

func (b *Backend) handleAsk(c *gin.Context) {
	var req struct {
		SessionID  int64  `json:"sessionId"`
		Question   string `json:"question"`
		DBConfigID int64  `json:"dbConfigId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusOK, gin.H{"code": 400, "msg": "问题不能为空"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"sessionId": req.SessionID,
			"answer":    "共 3 条记录",
			"sql":       "SELECT COUNT(*) FROM orders",
		},
	})
}

// IssueToken 签发 HS256 令牌
func IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret)
}
