package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/houzhh15/mt-console/pkg/apiclient"
)

// KnowledgeAPI 知识库、文件、文本块与关联
// 后端将这些接口挂在 /knowledge 下，不带 /api 前缀
type KnowledgeAPI struct {
	c *apiclient.Client
}

func NewKnowledgeAPI(c *apiclient.Client) *KnowledgeAPI {
	return &KnowledgeAPI{c: c}
}

func (k *KnowledgeAPI) List(ctx context.Context, q PageQuery) (*Page[Knowledge], error) {
	return apiclient.Do[*Page[Knowledge]](ctx, k.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   "/knowledge/list",
		Query:  q.params(),
	})
}

func (k *KnowledgeAPI) Create(ctx context.Context, kb Knowledge) (*Knowledge, error) {
	return apiclient.Do[*Knowledge](ctx, k.c, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   "/knowledge/create",
		Body:   kb,
	})
}

func (k *KnowledgeAPI) Get(ctx context.Context, id int64) (*Knowledge, error) {
	return apiclient.Do[*Knowledge](ctx, k.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/knowledge/%d", id),
		Route:  "/knowledge/:id",
	})
}

func (k *KnowledgeAPI) Update(ctx context.Context, kb Knowledge) error {
	_, err := k.c.Send(ctx, apiclient.Descriptor{Method: http.MethodPut, Path: "/knowledge/update", Body: kb})
	return err
}

func (k *KnowledgeAPI) Delete(ctx context.Context, id int64) error {
	_, err := k.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/knowledge/%d", id),
		Route:  "/knowledge/:id",
	})
	return err
}

func (k *KnowledgeAPI) Files(ctx context.Context, knowledgeID int64, q PageQuery) (*Page[KnowledgeFile], error) {
	return apiclient.Do[*Page[KnowledgeFile]](ctx, k.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/knowledge/%d/files", knowledgeID),
		Route:  "/knowledge/:id/files",
		Query:  q.params(),
	})
}

// UploadFile 以 multipart/form-data 上传文件，字段名为 file
func (k *KnowledgeAPI) UploadFile(ctx context.Context, knowledgeID int64, fileName string, content io.Reader) (*KnowledgeFile, error) {
	return apiclient.Do[*KnowledgeFile](ctx, k.c, apiclient.Descriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/knowledge/%d/upload", knowledgeID),
		Route:  "/knowledge/:id/upload",
		Body: apiclient.MultipartBody{
			Files: []apiclient.FilePart{{Field: "file", FileName: fileName, Content: content}},
		},
		Timeout: apiclient.LongTimeout,
	})
}

func (k *KnowledgeAPI) DeleteFile(ctx context.Context, knowledgeID, fileID int64) error {
	_, err := k.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/knowledge/%d/files/%d", knowledgeID, fileID),
		Route:  "/knowledge/:id/files/:fileId",
	})
	return err
}

func (k *KnowledgeAPI) Blocks(ctx context.Context, knowledgeID, fileID int64, q PageQuery) (*Page[TextBlock], error) {
	return apiclient.Do[*Page[TextBlock]](ctx, k.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/knowledge/%d/files/%d/blocks", knowledgeID, fileID),
		Route:  "/knowledge/:id/files/:fileId/blocks",
		Query:  q.params(),
	})
}

func (k *KnowledgeAPI) UpdateBlock(ctx context.Context, knowledgeID, fileID, blockID int64, block TextBlock) error {
	_, err := k.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/knowledge/%d/files/%d/blocks/%d", knowledgeID, fileID, blockID),
		Route:  "/knowledge/:id/files/:fileId/blocks/:blockId",
		Body:   block,
	})
	return err
}

func (k *KnowledgeAPI) Relations(ctx context.Context, knowledgeID int64, q PageQuery) (*Page[Relation], error) {
	return apiclient.Do[*Page[Relation]](ctx, k.c, apiclient.Descriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/knowledge/%d/relations", knowledgeID),
		Route:  "/knowledge/:id/relations",
		Query:  q.params(),
	})
}

func (k *KnowledgeAPI) UpdateRelation(ctx context.Context, knowledgeID, relationID int64, rel Relation) error {
	_, err := k.c.Send(ctx, apiclient.Descriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/knowledge/%d/relations/%d", knowledgeID, relationID),
		Route:  "/knowledge/:id/relations/:relationId",
		Body:   rel,
	})
	return err
}
