package admin

import (
	"errors"

	"github.com/kitchen-cart/internal/constants"
	handlershared "github.com/kitchen-cart/internal/http/handlers/shared"
	"github.com/kitchen-cart/internal/http/response"
	"github.com/kitchen-cart/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBackups 列出备份文件（从旧到新）
func (h *Handler) ListBackups(c *gin.Context) {
	names, err := h.BackupService.List()
	if err != nil {
		if errors.Is(err, service.ErrBackupDisabled) {
			respondError(c, response.CodeBadRequest, "error.backup_disabled", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.backup_failed", err)
		return
	}
	response.Success(c, gin.H{"items": names})
}

// CreateBackup 立即备份当前文档
func (h *Handler) CreateBackup(c *gin.Context) {
	path, err := h.BackupService.Run(c.Request.Context(), constants.BackupReasonManual)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBackupDisabled):
			respondError(c, response.CodeBadRequest, "error.backup_disabled", nil)
		case errors.Is(err, service.ErrDocumentReadFailed):
			respondError(c, response.CodeInternal, "error.load_failed", err)
		default:
			respondError(c, response.CodeInternal, "error.backup_failed", err)
		}
		return
	}
	handlershared.RequestLog(c).Infow("admin_backup_created", "path", path)
	response.Success(c, gin.H{"path": path})
}
