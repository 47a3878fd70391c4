package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/houzhh15/mt-console/pkg/apiclient"
)

// DataAPI 数据管理向导：业务说明、数据库、数据源、系统工具与“我的接口”
// 向导各步骤的表单由后端定义，这里按原始 JSON 透传
type DataAPI struct {
	c *apiclient.Client
}

func NewDataAPI(c *apiclient.Client) *DataAPI {
	return &DataAPI{c: c}
}

func (d *DataAPI) get(ctx context.Context, path string, query map[string]any) (json.RawMessage, error) {
	return d.c.Send(ctx, apiclient.Descriptor{Method: http.MethodGet, Path: path, Query: query})
}

func (d *DataAPI) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return d.c.Send(ctx, apiclient.Descriptor{Method: http.MethodPost, Path: path, Body: body})
}

func (d *DataAPI) BusinessConfig(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/data/business", nil)
}

func (d *DataAPI) SaveBusinessConfig(ctx context.Context, cfg any) (json.RawMessage, error) {
	return d.post(ctx, "/data/business", cfg)
}

func (d *DataAPI) DBConfig(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/data/db/config", nil)
}

func (d *DataAPI) SaveDBConfig(ctx context.Context, cfg any) (json.RawMessage, error) {
	return d.post(ctx, "/data/db/config", cfg)
}

func (d *DataAPI) TestDBConnection(ctx context.Context, cfg any) (json.RawMessage, error) {
	return d.post(ctx, "/data/db/test", cfg)
}

func (d *DataAPI) Tables(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/data/db/tables", nil)
}

// Columns 表的列信息，query 通常为 {"table": 表名}
func (d *DataAPI) Columns(ctx context.Context, query map[string]any) (json.RawMessage, error) {
	return d.get(ctx, "/data/db/columns", query)
}

func (d *DataAPI) DataSource(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/data/source", nil)
}

func (d *DataAPI) SaveDataSource(ctx context.Context, src any) (json.RawMessage, error) {
	return d.post(ctx, "/data/source", src)
}

func (d *DataAPI) ToolOptions(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/data/tools/options", nil)
}

func (d *DataAPI) SelectedTools(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/data/tools", nil)
}

func (d *DataAPI) SaveSelectedTools(ctx context.Context, tools any) (json.RawMessage, error) {
	return d.post(ctx, "/data/tools", tools)
}

func (d *DataAPI) ListAPIs(ctx context.Context, q PageQuery) (json.RawMessage, error) {
	return d.get(ctx, "/data/apis", q.params())
}

func (d *DataAPI) GenerateAPI(ctx context.Context, req any) (json.RawMessage, error) {
	return d.post(ctx, "/data/apis/generate", req)
}

func (d *DataAPI) ToggleAPI(ctx context.Context, id int64, enabled bool) error {
	_, err := d.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/data/apis/%d/toggle", id),
		Route:  "/data/apis/:id/toggle",
		Body:   map[string]bool{"enabled": enabled},
	})
	return err
}

func (d *DataAPI) DeleteAPI(ctx context.Context, id int64) error {
	_, err := d.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/data/apis/%d", id),
		Route:  "/data/apis/:id",
	})
	return err
}
