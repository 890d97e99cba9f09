package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const documentFileMode os.FileMode = 0o644

// ErrDocumentNotFound 文档尚未写入
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository 文档存储接口，整体读取、整体覆盖
type DocumentRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, body []byte) error
}

// FileDocumentRepository 基于单个 JSON 文件的实现
type FileDocumentRepository struct {
	path string
}

// NewFileDocumentRepository 创建文件文档仓库
func NewFileDocumentRepository(path string) *FileDocumentRepository {
	return &FileDocumentRepository{path: strings.TrimSpace(path)}
}

// Path 文件路径
func (r *FileDocumentRepository) Path() string {
	return r.path
}

// Load 读取文件原文
func (r *FileDocumentRepository) Load(_ context.Context) ([]byte, error) {
	body, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, r.path)
		}
		return nil, err
	}
	return body, nil
}

// Save 先写临时文件再重命名，读方不会看到写了一半的文件
func (r *FileDocumentRepository) Save(_ context.Context, body []byte) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir failed: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document failed: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}
	if err := tmp.Chmod(r.fileMode()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp document failed: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp document failed: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp document failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp document failed: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("replace document failed: %w", err)
	}
	return nil
}

// fileMode 沿用已有文档的权限，首次写入使用 0644
func (r *FileDocumentRepository) fileMode() os.FileMode {
	if info, err := os.Stat(r.path); err == nil {
		return info.Mode().Perm()
	}
	return documentFileMode
}

// GormDocumentRepository GORM 实现，每个键一行
type GormDocumentRepository struct {
	db  *gorm.DB
	key string
}

// NewGormDocumentRepository 创建数据库文档仓库
func NewGormDocumentRepository(db *gorm.DB, key string) *GormDocumentRepository {
	key = strings.TrimSpace(key)
	if key == "" {
		key = constants.DefaultDocumentKey
	}
	return &GormDocumentRepository{db: db, key: key}
}

// Load 读取文档行
func (r *GormDocumentRepository) Load(ctx context.Context) ([]byte, error) {
	var record models.DocumentRecord
	if err := r.db.WithContext(ctx).Where("key = ?", r.key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: key=%s", ErrDocumentNotFound, r.key)
		}
		return nil, err
	}
	return []byte(record.Body), nil
}

// Save 写入或覆盖文档行
func (r *GormDocumentRepository) Save(ctx context.Context, body []byte) error {
	record := models.DocumentRecord{
		Key:       r.key,
		Body:      string(body),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&record).Error
}
