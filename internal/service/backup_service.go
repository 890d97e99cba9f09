package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/metrics"
)

const (
	backupFilePrefix     = "items-"
	backupFileSuffix     = ".json"
	backupTimestampStyle = "20060102-150405.000"
	defaultBackupKeep    = 20
)

// BackupService 将当前文档写入备份目录并清理旧备份
type BackupService struct {
	documents *DocumentService
	cfg       config.BackupConfig
	metrics   *metrics.DocumentMetrics
	now       func() time.Time
}

// NewBackupService 创建备份服务
func NewBackupService(documents *DocumentService, cfg config.BackupConfig, m *metrics.DocumentMetrics) *BackupService {
	return &BackupService{
		documents: documents,
		cfg:       cfg,
		metrics:   m,
		now:       time.Now,
	}
}

// Enabled 是否启用备份
func (s *BackupService) Enabled() bool {
	return s != nil && s.cfg.Enabled && strings.TrimSpace(s.cfg.Dir) != ""
}

// Interval 定时备份间隔
func (s *BackupService) Interval() time.Duration {
	if s == nil {
		return 0
	}
	return s.cfg.Interval()
}

// Run 执行一次备份，返回备份文件路径
func (s *BackupService) Run(ctx context.Context, reason string) (path string, err error) {
	if !s.Enabled() {
		return "", ErrBackupDisabled
	}
	started := time.Now()
	defer func() {
		s.metrics.Observe(metrics.OpBackup, started, err)
	}()

	body, err := s.documents.Retrieve(ctx)
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(s.cfg.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir failed: %w", err)
	}
	name := backupFilePrefix + s.now().UTC().Format(backupTimestampStyle) + backupFileSuffix
	path = filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write backup failed: %w", err)
	}

	removed, err := s.prune(dir)
	if err != nil {
		logger.Warnw("document_backup_prune_failed", "dir", dir, "error", err)
	}
	logger.Infow("document_backup_written",
		"path", path,
		"reason", reason,
		"bytes", len(body),
		"pruned", removed,
	)
	return path, nil
}

// List 按时间从旧到新返回备份文件名
func (s *BackupService) List() ([]string, error) {
	if !s.Enabled() {
		return nil, ErrBackupDisabled
	}
	return listBackups(s.cfg.Dir)
}

func (s *BackupService) prune(dir string) (int, error) {
	keep := s.cfg.Keep
	if keep <= 0 {
		keep = defaultBackupKeep
	}
	names, err := listBackups(dir)
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(names)-removed > keep {
		if err := os.Remove(filepath.Join(dir, names[removed])); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func listBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupFilePrefix) || !strings.HasSuffix(name, backupFileSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
