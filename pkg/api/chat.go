package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/houzhh15/mt-console/pkg/apiclient"
)

// ChatAPI 问答会话
type ChatAPI struct {
	c *apiclient.Client
}

func NewChatAPI(c *apiclient.Client) *ChatAPI {
	return &ChatAPI{c: c}
}

func (ch *ChatAPI) ListSessions(ctx context.Context, q PageQuery) (*Page[ChatSession], error) {
	return apiclient.Do[*Page[ChatSession]](ctx, ch.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/chat/sessions",
		Query:  q.params(),
	})
}

func (ch *ChatAPI) CreateSession(ctx context.Context, req CreateSessionRequest) (*ChatSession, error) {
	return apiclient.Do[*ChatSession](ctx, ch.c, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   "/api/chat/sessions",
		Body:   req,
	})
}

func (ch *ChatAPI) Messages(ctx context.Context, sessionID int64) ([]ChatMessage, error) {
	return apiclient.Do[[]ChatMessage](ctx, ch.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/chat/sessions/%d/messages", sessionID),
		Route:  "/api/chat/sessions/:id/messages",
	})
}

// UserTools 当前用户可用的工具
func (ch *ChatAPI) UserTools(ctx context.Context) ([]Tool, error) {
	return apiclient.Do[[]Tool](ctx, ch.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/api/chat/user-tools",
	})
}

func (ch *ChatAPI) UpdateTitle(ctx context.Context, sessionID int64, title string) error {
	_, err := ch.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/chat/sessions/%d/title", sessionID),
		Route:  "/api/chat/sessions/:id/title",
		Body:   map[string]string{"title": title},
	})
	return err
}

func (ch *ChatAPI) DeleteSession(ctx context.Context, sessionID int64) error {
	_, err := ch.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/chat/sessions/%d", sessionID),
		Route:  "/api/chat/sessions/:id",
	})
	return err
}
