// Package api 按资源划分的后端调用，每个方法对应一个接口。
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/houzhh15/mt-console/pkg/apiclient"
	"github.com/houzhh15/mt-console/pkg/session"
)

// UserAPI 用户与登录
type UserAPI struct {
	c       *apiclient.Client
	session *session.Manager
}

// NewUserAPI 创建用户服务；session 为 nil 时登录结果不会持久化
func NewUserAPI(c *apiclient.Client, sess *session.Manager) *UserAPI {
	return &UserAPI{c: c, session: sess}
}

// Login 登录，成功后写入凭证、用户信息与登录标记
func (u *UserAPI) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	res, err := apiclient.Do[*LoginResult](ctx, u.c, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   "/api/user/login",
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &LoginResult{}
	}
	if u.session != nil {
		if err := u.session.Persist(res.Token, res.User); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
	}
	return res, nil
}

// Logout 清除本地登录态，不调用后端
func (u *UserAPI) Logout() error {
	if u.session == nil {
		return nil
	}
	return u.session.Logout()
}

// CurrentUser 本地缓存的用户信息
func (u *UserAPI) CurrentUser() (*User, error) {
	if u.session == nil {
		return nil, nil
	}
	return u.session.CurrentUser()
}

// IsLoggedIn 是否已登录
func (u *UserAPI) IsLoggedIn() bool {
	return u.session != nil && u.session.IsLoggedIn()
}

func (u *UserAPI) List(ctx context.Context, q PageQuery) (*Page[User], error) {
	return apiclient.Do[*Page[User]](ctx, u.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/user/list",
		Query:  q.params(),
	})
}

func (u *UserAPI) Get(ctx context.Context, id int64) (*User, error) {
	return apiclient.Do[*User](ctx, u.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/user/%d", id),
		Route:  "/api/user/:id",
	})
}

func (u *UserAPI) Add(ctx context.Context, form UserForm) error {
	_, err := u.c.Send(ctx, apiclient.Descriptor{Method: http.MethodPost, Path: "/api/user/add", Body: form})
	return err
}

func (u *UserAPI) Update(ctx context.Context, form UserForm) error {
	_, err := u.c.Send(ctx, apiclient.Descriptor{Method: http.MethodPut, Path: "/api/user/update", Body: form})
	return err
}

func (u *UserAPI) Delete(ctx context.Context, id int64) error {
	_, err := u.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/user/%d", id),
		Route:  "/api/user/:id",
	})
	return err
}

// UpdateStatus 启用/禁用用户，参数通过查询串传递
func (u *UserAPI) UpdateStatus(ctx context.Context, id int64, status int) error {
	_, err := u.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   "/api/user/status",
		Query:  map[string]any{"id": id, "status": status},
	})
	return err
}
