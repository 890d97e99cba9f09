package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/metrics"
	"github.com/kitchen-cart/internal/queue"
	"github.com/kitchen-cart/internal/repository"
)

// DocumentService 整体读取/覆盖持久化文档
// 不做版本控制，并发写入以最后一次为准。
type DocumentService struct {
	repo        repository.DocumentRepository
	queueClient *queue.Client
	metrics     *metrics.DocumentMetrics
}

// NewDocumentService 创建文档服务
func NewDocumentService(repo repository.DocumentRepository, queueClient *queue.Client, m *metrics.DocumentMetrics) *DocumentService {
	return &DocumentService{
		repo:        repo,
		queueClient: queueClient,
		metrics:     m,
	}
}

// Retrieve 返回存储中的文档原文
func (s *DocumentService) Retrieve(ctx context.Context) (body []byte, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(metrics.OpRetrieve, started, err)
	}()

	body, err = s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentReadFailed, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %w", ErrDocumentReadFailed, ErrDocumentMalformed)
	}
	return body, nil
}

// Replace 用请求体整体覆盖文档，任何合法 JSON 均接受
func (s *DocumentService) Replace(ctx context.Context, body []byte) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(metrics.OpReplace, started, err)
	}()

	if !json.Valid(body) {
		return fmt.Errorf("%w: %w", ErrDocumentWriteFailed, ErrDocumentMalformed)
	}
	var formatted bytes.Buffer
	if err := json.Indent(&formatted, bytes.TrimSpace(body), "", "  "); err != nil {
		return fmt.Errorf("%w: %w", ErrDocumentWriteFailed, err)
	}
	if err := s.repo.Save(ctx, formatted.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrDocumentWriteFailed, err)
	}
	s.metrics.SetSize(formatted.Len())

	if s.queueClient.Enabled() {
		payload := queue.DocumentBackupPayload{
			Reason:      constants.BackupReasonReplace,
			RequestedAt: time.Now().UTC(),
		}
		if err := s.queueClient.EnqueueDocumentBackup(ctx, payload); err != nil {
			logger.Warnw("document_backup_enqueue_failed", "error", err)
		}
	}
	return nil
}
