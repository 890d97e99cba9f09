package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/provider"
	"github.com/kitchen-cart/internal/queue"

	"github.com/hibiken/asynq"
)

func newTestConsumer(t *testing.T, backupEnabled bool, intervalMinutes int) (*Consumer, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.FilePath = filepath.Join(dir, "items.json")
	cfg.Draft.FilePath = filepath.Join(dir, "cart-draft.json")
	cfg.Backup.Enabled = backupEnabled
	cfg.Backup.Dir = filepath.Join(dir, "backups")
	cfg.Backup.IntervalMinutes = intervalMinutes

	c := provider.NewContainer(cfg)
	t.Cleanup(c.Close)
	if err := c.DocumentService.Replace(context.Background(), []byte(`{"stores":[],"units":[],"items":[]}`)); err != nil {
		t.Fatalf("seed document failed: %v", err)
	}
	return NewConsumer(c), cfg.Backup.Dir
}

func TestHandleDocumentBackupWritesFile(t *testing.T) {
	consumer, dir := newTestConsumer(t, true, 0)
	task, err := queue.NewDocumentBackupTask(queue.DocumentBackupPayload{Reason: "replace", RequestedAt: time.Now()})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleDocumentBackup(context.Background(), task); err != nil {
		t.Fatalf("handle backup failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read backup dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one backup file, got %d", len(entries))
	}
}

func TestHandleDocumentBackupDisabledIsNoop(t *testing.T) {
	consumer, dir := newTestConsumer(t, false, 0)
	task, err := queue.NewDocumentBackupTask(queue.DocumentBackupPayload{Reason: "replace"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleDocumentBackup(context.Background(), task); err != nil {
		t.Fatalf("disabled backup should not fail the task: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("backup dir should not be created when disabled")
	}
}

func TestHandleDocumentBackupBadPayloadSkipsRetry(t *testing.T) {
	consumer, _ := newTestConsumer(t, true, 0)
	task := asynq.NewTask(queue.TaskDocumentBackup, []byte(`{bad`))
	err := consumer.handleDocumentBackup(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestNewServiceRequiresWork(t *testing.T) {
	consumer, _ := newTestConsumer(t, true, 0)
	if _, err := NewService(&config.QueueConfig{Enabled: false}, consumer); !errors.Is(err, ErrNothingToRun) {
		t.Fatalf("expected ErrNothingToRun, got %v", err)
	}
	if _, err := NewService(nil, nil); err == nil {
		t.Fatalf("nil consumer should be rejected")
	}
}

func TestScheduleOnlyServiceStops(t *testing.T) {
	consumer, _ := newTestConsumer(t, true, 30)
	svc, err := NewService(&config.QueueConfig{Enabled: false}, consumer)
	if err != nil {
		t.Fatalf("schedule-only service should be created: %v", err)
	}
	done := make(chan error, 1)
	go func() {
		done <- svc.Start(context.Background())
	}()
	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start should return nil after stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("service did not stop")
	}
}
