package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kitchen-cart/internal/models"
)

// DocumentClient 会话访问持久化端点的方式
type DocumentClient interface {
	Retrieve(ctx context.Context) (*models.Document, error)
	Replace(ctx context.Context, doc *models.Document) error
}

// LocalDocumentClient 进程内直接调用文档服务
type LocalDocumentClient struct {
	documents *DocumentService
}

// NewLocalDocumentClient 创建进程内文档客户端
func NewLocalDocumentClient(documents *DocumentService) *LocalDocumentClient {
	return &LocalDocumentClient{documents: documents}
}

// Retrieve 读取并解析文档
func (c *LocalDocumentClient) Retrieve(ctx context.Context) (*models.Document, error) {
	body, err := c.documents.Retrieve(ctx)
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentReadFailed, err)
	}
	return &doc, nil
}

// Replace 序列化并覆盖文档
func (c *LocalDocumentClient) Replace(ctx context.Context, doc *models.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDocumentWriteFailed, err)
	}
	return c.documents.Replace(ctx, body)
}
