package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/houzhh15/mt-console/pkg/apiclient"
)

// ToolAPI 工具管理，接口挂在 /tool 下
type ToolAPI struct {
	c *apiclient.Client
}

func NewToolAPI(c *apiclient.Client) *ToolAPI {
	return &ToolAPI{c: c}
}

func (t *ToolAPI) List(ctx context.Context, q PageQuery) (*Page[Tool], error) {
	return apiclient.Do[*Page[Tool]](ctx, t.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/tool/list",
		Query:  q.params(),
	})
}

func (t *ToolAPI) Add(ctx context.Context, tool Tool) error {
	_, err := t.c.Send(ctx, apiclient.Descriptor{Method: http.MethodPost, Path: "/tool/add", Body: tool})
	return err
}

func (t *ToolAPI) Update(ctx context.Context, tool Tool) error {
	_, err := t.c.Send(ctx, apiclient.Descriptor{Method: http.MethodPut, Path: "/tool/update", Body: tool})
	return err
}

func (t *ToolAPI) Delete(ctx context.Context, id int64) error {
	_, err := t.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/tool/%d", id),
		Route:  "/tool/:id",
	})
	return err
}

func (t *ToolAPI) Get(ctx context.Context, id int64) (*Tool, error) {
	return apiclient.Do[*Tool](ctx, t.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/tool/%d", id),
		Route:  "/tool/:id",
	})
}
