package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/models"
)

// ErrDraftCorrupt 草稿内容无法解析
var ErrDraftCorrupt = errors.New("draft cart corrupt")

// FileDraftCache 以单个本地文件作为草稿槽位
type FileDraftCache struct {
	path string
}

// NewFileDraftCache 创建文件草稿缓存
func NewFileDraftCache(path string) *FileDraftCache {
	return &FileDraftCache{path: strings.TrimSpace(path)}
}

// Load 读取草稿；文件不存在时返回空
func (c *FileDraftCache) Load(_ context.Context) ([]models.CartLine, error) {
	body, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return decodeDraft(body)
}

// Save 覆盖写入草稿
func (c *FileDraftCache) Save(_ context.Context, lines []models.CartLine) error {
	payload, err := encodeDraft(lines)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create draft dir failed: %w", err)
	}
	return os.WriteFile(c.path, payload, 0o644)
}

// RedisDraftCache 以 Redis 固定键作为草稿槽位
type RedisDraftCache struct {
	key string
}

// NewRedisDraftCache 创建 Redis 草稿缓存
func NewRedisDraftCache(key string) *RedisDraftCache {
	key = strings.TrimSpace(key)
	if key == "" {
		key = constants.DefaultDraftKey
	}
	return &RedisDraftCache{key: "draft:" + key}
}

// Load 读取草稿；Redis 未启用或键不存在时返回空
func (c *RedisDraftCache) Load(ctx context.Context) ([]models.CartLine, error) {
	body, hit, err := GetBytes(ctx, c.key)
	if err != nil || !hit {
		return nil, err
	}
	return decodeDraft(body)
}

// Save 覆盖写入草稿（不过期）
func (c *RedisDraftCache) Save(ctx context.Context, lines []models.CartLine) error {
	payload, err := encodeDraft(lines)
	if err != nil {
		return err
	}
	return SetBytes(ctx, c.key, payload, 0)
}

func encodeDraft(lines []models.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return json.Marshal(lines)
}

func decodeDraft(body []byte) ([]models.CartLine, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	var lines []models.CartLine
	if err := json.Unmarshal(body, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftCorrupt, err)
	}
	return lines, nil
}
