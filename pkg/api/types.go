package api

import (
	"encoding/json"

	"github.com/houzhh15/mt-console/pkg/session"
)

// User 用户信息
type User = session.User

// PageQuery 分页参数，零值字段不会出现在查询串中
type PageQuery struct {
	Current int
	Size    int
	// Extra 额外的过滤条件，如 username、status
	Extra map[string]any
}

func (q PageQuery) params() map[string]any {
	p := make(map[string]any, len(q.Extra)+2)
	for k, v := range q.Extra {
		p[k] = v
	}
	if q.Current > 0 {
		p["current"] = q.Current
	}
	if q.Size > 0 {
		p["size"] = q.Size
	}
	return p
}

// Page 后端分页结果
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Size    int64 `json:"size"`
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult 登录结果；仅 Cookie 会话时 Token 为空
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserForm 新增/更新用户
type UserForm struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
	Status   *int   `json:"status,omitempty"`
}

// DBConfig 外部数据库配置
type DBConfig struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	DBType       string `json:"dbType"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	// RawPassword 明文密码，仅在保存/测试时提交，后端加密存储
	RawPassword string `json:"rawPassword,omitempty"`
	Status      int    `json:"status,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// SchemaStatus 最新一次表结构同步状态
type SchemaStatus struct {
	DBConfigID int64  `json:"dbConfigId"`
	Version    int64  `json:"version"`
	Status     string `json:"status"`
	TableCount int    `json:"tableCount"`
	Message    string `json:"message,omitempty"`
	SyncedAt   string `json:"syncedAt,omitempty"`
}

// TableInfo 表清单条目
type TableInfo struct {
	ID           int64  `json:"id"`
	TableName    string `json:"tableName"`
	TableComment string `json:"tableComment,omitempty"`
	Allowed      int    `json:"allowed"`
}

// ColumnInfo 列清单条目
type ColumnInfo struct {
	ID            int64  `json:"id"`
	ColumnName    string `json:"columnName"`
	DataType      string `json:"dataType"`
	ColumnComment string `json:"columnComment,omitempty"`
	Nullable      bool   `json:"nullable"`
	PrimaryKey    bool   `json:"primaryKey"`
}

// ChatSession 会话
type ChatSession struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	DBConfigID int64  `json:"dbConfigId,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// CreateSessionRequest 新建会话
type CreateSessionRequest struct {
	Title      string `json:"title,omitempty"`
	DBConfigID int64  `json:"dbConfigId,omitempty"`
}

// ChatMessage 会话消息
type ChatMessage struct {
	ID        int64  `json:"id"`
	SessionID int64  `json:"sessionId"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	SQL       string `json:"sql,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Knowledge 知识库
type Knowledge struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FileCount   int    `json:"fileCount,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// KnowledgeFile 知识库文件
type KnowledgeFile struct {
	ID         int64  `json:"id"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	Status     string `json:"status,omitempty"`
	BlockCount int    `json:"blockCount,omitempty"`
}

// TextBlock 文件文本块
type TextBlock struct {
	ID      int64  `json:"id,omitempty"`
	Content string `json:"content"`
	Seq     int    `json:"seq,omitempty"`
}

// Relation 知识关联
type Relation struct {
	ID       int64   `json:"id,omitempty"`
	Question string  `json:"question,omitempty"`
	BlockID  int64   `json:"blockId,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Status   int     `json:"status,omitempty"`
}

// APIConfig 对外开放的 API 配置
type APIConfig struct {
	ID          int64  `json:"id,omitempty"`
	APIName     string `json:"apiName"`
	Description string `json:"description,omitempty"`
	DBConfigID  int64  `json:"dbConfigId,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	Status      int    `json:"status,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Tool 工具定义
type Tool struct {
	ID          int64           `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Enabled     bool            `json:"enabled"`
	Params      json.RawMessage `json:"params,omitempty"`
}

// AskRequest 数据问答请求
type AskRequest struct {
	SessionID  int64  `json:"sessionId,omitempty"`
	Question   string `json:"question"`
	DBConfigID int64  `json:"dbConfigId,omitempty"`
	// TableID 表 ID 或表名，可选
	TableID any `json:"tableId,omitempty"`
}

// AskResult 数据问答结果，失败时 Success 为 false 且 Error 为展示文本
type AskResult struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// PathProbe 单个接口路径的探测结果
type PathProbe struct {
	Path   string `json:"path"`
	Status int    `json:"status"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// ConnectionResult 后端连通性检查结果
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
