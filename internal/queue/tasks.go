package queue

import (
	"encoding/json"
	"time"

	"github.com/kitchen-cart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDocumentBackup 文档备份任务
	TaskDocumentBackup = constants.TaskDocumentBackup
)

// DocumentBackupPayload 文档备份任务载荷
type DocumentBackupPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewDocumentBackupTask 创建文档备份任务
func NewDocumentBackupTask(payload DocumentBackupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDocumentBackup, body), nil
}

// ParseDocumentBackupPayload 解析文档备份任务载荷
func ParseDocumentBackupPayload(task *asynq.Task) (DocumentBackupPayload, error) {
	var payload DocumentBackupPayload
	if task == nil || len(task.Payload()) == 0 {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
