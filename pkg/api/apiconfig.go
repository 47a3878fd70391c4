package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/houzhh15/mt-console/pkg/apiclient"
)

// APIConfigAPI 对外 API 与密钥管理
type APIConfigAPI struct {
	c *apiclient.Client
}

func NewAPIConfigAPI(c *apiclient.Client) *APIConfigAPI {
	return &APIConfigAPI{c: c}
}

func (a *APIConfigAPI) Page(ctx context.Context, q PageQuery) (*Page[APIConfig], error) {
	return apiclient.Do[*Page[APIConfig]](ctx, a.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/api-config/page",
		Query:  q.params(),
	})
}

// List 当前用户的全部 API 配置
func (a *APIConfigAPI) List(ctx context.Context) ([]APIConfig, error) {
	return apiclient.Do[[]APIConfig](ctx, a.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/api-config/list",
	})
}

func (a *APIConfigAPI) Get(ctx context.Context, id int64) (*APIConfig, error) {
	return apiclient.Do[*APIConfig](ctx, a.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/api-config/%d", id),
		Route:  "/api/api-config/:id",
	})
}

func (a *APIConfigAPI) Create(ctx context.Context, cfg APIConfig) (*APIConfig, error) {
	return apiclient.Do[*APIConfig](ctx, a.c, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   "/api/api-config",
		Body:   cfg,
	})
}

func (a *APIConfigAPI) Update(ctx context.Context, id int64, cfg APIConfig) error {
	_, err := a.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/api-config/%d", id),
		Route:  "/api/api-config/:id",
		Body:   cfg,
	})
	return err
}

func (a *APIConfigAPI) Delete(ctx context.Context, id int64) error {
	_, err := a.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/api-config/%d", id),
		Route:  "/api/api-config/:id",
	})
	return err
}

func (a *APIConfigAPI) ToggleStatus(ctx context.Context, id int64) error {
	_, err := a.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/api-config/%d/toggle-status", id),
		Route:  "/api/api-config/:id/toggle-status",
	})
	return err
}

// RegenerateKey 重新生成密钥，返回新的配置（含新密钥）
func (a *APIConfigAPI) RegenerateKey(ctx context.Context, id int64) (*APIConfig, error) {
	return apiclient.Do[*APIConfig](ctx, a.c, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/api-config/%d/regenerate-key", id),
		Route:  "/api/api-config/:id/regenerate-key",
	})
}
