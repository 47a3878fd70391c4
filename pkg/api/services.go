package api

import (
	"time"

	"github.com/houzhh15/mt-console/pkg/apiclient"
	"github.com/houzhh15/mt-console/pkg/session"
)

// Services 共享同一个客户端的全部资源服务
type Services struct {
	Client  *apiclient.Client
	Session *session.Manager

	Users       *UserAPI
	DBConfigs   *DBConfigAPI
	Schema      *SchemaAPI
	Chat        *ChatAPI
	Knowledge   *KnowledgeAPI
	APIConfigs  *APIConfigAPI
	Tools       *ToolAPI
	Data        *DataAPI
	Question    *QuestionAPI
	Diagnostics *Diagnostics
}

// NewServices 基于客户端组装服务；客户端注入了存储时登录结果会被持久化
func NewServices(c *apiclient.Client, askTimeout time.Duration) *Services {
	var sess *session.Manager
	if store := c.Store(); store != nil {
		sess = session.NewManager(store)
	}
	return &Services{
		Client:      c,
		Session:     sess,
		Users:       NewUserAPI(c, sess),
		DBConfigs:   NewDBConfigAPI(c),
		Schema:      NewSchemaAPI(c),
		Chat:        NewChatAPI(c),
		Knowledge:   NewKnowledgeAPI(c),
		APIConfigs:  NewAPIConfigAPI(c),
		Tools:       NewToolAPI(c),
		Data:        NewDataAPI(c),
		Question:    NewQuestionAPI(c, askTimeout),
		Diagnostics: NewDiagnostics(c),
	}
}
