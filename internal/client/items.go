package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kitchen-cart/internal/models"
	"github.com/kitchen-cart/internal/service"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	itemsPath      = "/api/items"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// ItemsClient 通过 HTTP 访问远端 /api/items
type ItemsClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewItemsClient 创建远端文档客户端；endpoint 可以是服务根地址或完整的 /api/items 地址
func NewItemsClient(endpoint string, timeout time.Duration) *ItemsClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ItemsClient{
		endpoint:   resolveEndpoint(endpoint),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Endpoint 实际请求地址
func (c *ItemsClient) Endpoint() string {
	return c.endpoint
}

// Retrieve GET 整个文档
func (c *ItemsClient) Retrieve(ctx context.Context) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrDocumentReadFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrDocumentReadFailed, err)
	}
	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrDocumentReadFailed, err)
	}
	return &doc, nil
}

// Replace PUT 整个文档
func (c *ItemsClient) Replace(ctx context.Context, doc *models.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrDocumentWriteFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrDocumentWriteFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("%w: %w", service.ErrDocumentWriteFailed, err)
	}
	return nil
}

func (c *ItemsClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, remoteError(body))
	}
	return body, nil
}

func remoteError(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}

func resolveEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if strings.HasSuffix(endpoint, itemsPath) {
		return endpoint
	}
	return endpoint + itemsPath
}
