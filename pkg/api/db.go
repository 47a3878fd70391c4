package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/houzhh15/mt-console/pkg/apiclient"
)

// DBConfigAPI 外部数据库配置
type DBConfigAPI struct {
	c *apiclient.Client
}

func NewDBConfigAPI(c *apiclient.Client) *DBConfigAPI {
	return &DBConfigAPI{c: c}
}

// Save 新增或更新配置（带 ID 时为更新），后端读取 rawPassword 加密存储
func (d *DBConfigAPI) Save(ctx context.Context, cfg DBConfig) (*DBConfig, error) {
	return apiclient.Do[*DBConfig](ctx, d.c, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   "/api/db/config",
		Body:   cfg,
	})
}

func (d *DBConfigAPI) Get(ctx context.Context, id int64) (*DBConfig, error) {
	return apiclient.Do[*DBConfig](ctx, d.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/db/config/%d", id),
		Route:  "/api/db/config/:id",
	})
}

func (d *DBConfigAPI) List(ctx context.Context, q PageQuery) (*Page[DBConfig], error) {
	return apiclient.Do[*Page[DBConfig]](ctx, d.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/db/configs",
		Query:  q.params(),
	})
}

// ListEnabled 已启用的配置
func (d *DBConfigAPI) ListEnabled(ctx context.Context) ([]DBConfig, error) {
	return apiclient.Do[[]DBConfig](ctx, d.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/db/configs/enabled",
	})
}

// Verify 验证已保存配置的连接
func (d *DBConfigAPI) Verify(ctx context.Context, id int64) (json.RawMessage, error) {
	return d.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/db/config/%d/verify", id),
		Route:  "/api/db/config/:id/verify",
	})
}

// Test 测试未保存配置的连接
func (d *DBConfigAPI) Test(ctx context.Context, cfg DBConfig) (json.RawMessage, error) {
	return d.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   "/api/db/config/test",
		Body:   cfg,
	})
}

func (d *DBConfigAPI) Delete(ctx context.Context, id int64) error {
	_, err := d.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/db/config/%d", id),
		Route:  "/api/db/config/:id",
	})
	return err
}

func (d *DBConfigAPI) UpdateStatus(ctx context.Context, id int64, status int) error {
	_, err := d.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/db/config/%d/status", id),
		Route:  "/api/db/config/:id/status",
		Body:   map[string]int{"status": status},
	})
	return err
}

// ReEncryptPassword 使用新密码重新加密存储
func (d *DBConfigAPI) ReEncryptPassword(ctx context.Context, id int64, password string) error {
	_, err := d.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/db/config/%d/re-encrypt", id),
		Route:  "/api/db/config/:id/re-encrypt",
		Body:   map[string]string{"password": password},
	})
	return err
}

// SchemaAPI 表结构同步与访问控制
type SchemaAPI struct {
	c *apiclient.Client
}

func NewSchemaAPI(c *apiclient.Client) *SchemaAPI {
	return &SchemaAPI{c: c}
}

// StartSync 触发同步，完成后可查询状态、表与列
func (s *SchemaAPI) StartSync(ctx context.Context, dbConfigID int64) (json.RawMessage, error) {
	return s.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/db/schema/%d/sync", dbConfigID),
		Route:  "/api/db/schema/:id/sync",
	})
}

func (s *SchemaAPI) Status(ctx context.Context, dbConfigID int64) (*SchemaStatus, error) {
	return apiclient.Do[*SchemaStatus](ctx, s.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/db/schema/%d/status", dbConfigID),
		Route:  "/api/db/schema/:id/status",
	})
}

// ListTables 表清单；allowed 为 nil 时不过滤，否则为 0/1
func (s *SchemaAPI) ListTables(ctx context.Context, dbConfigID int64, allowed *int) ([]TableInfo, error) {
	return apiclient.Do[[]TableInfo](ctx, s.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/db/schema/%d/tables", dbConfigID),
		Route:  "/api/db/schema/:id/tables",
		Query:  map[string]any{"allowed": allowed},
	})
}

func (s *SchemaAPI) ListColumns(ctx context.Context, dbConfigID, tableID int64) ([]ColumnInfo, error) {
	return apiclient.Do[[]ColumnInfo](ctx, s.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/db/schema/%d/tables/%d/columns", dbConfigID, tableID),
		Route:  "/api/db/schema/:id/tables/:tableId/columns",
	})
}

func (s *SchemaAPI) UpdateTableComment(ctx context.Context, tableID int64, comment string) error {
	_, err := s.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/db/schema/table/%d/comment", tableID),
		Route:  "/api/db/schema/table/:tableId/comment",
		Body:   map[string]string{"comment": comment},
	})
	return err
}

// UpdateTableAccess 设置表是否允许问答访问
func (s *SchemaAPI) UpdateTableAccess(ctx context.Context, tableID int64, enabled bool) error {
	_, err := s.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/db/schema/table/%d/access", tableID),
		Route:  "/api/db/schema/table/:tableId/access",
		Body:   map[string]bool{"enabled": enabled},
	})
	return err
}
