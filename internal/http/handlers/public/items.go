package public

import (
	handlershared "github.com/kitchen-cart/internal/http/handlers/shared"
	"github.com/kitchen-cart/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	itemsReadFailedMessage  = "Failed to read items"
	itemsWriteFailedMessage = "Failed to write items"
)

// GetItems 返回完整文档
func (h *Handler) GetItems(c *gin.Context) {
	body, err := h.DocumentService.Retrieve(c.Request.Context())
	if err != nil {
		handlershared.RequestLog(c).Errorw("items_read_failed", "error", err)
		response.DocumentError(c, itemsReadFailedMessage)
		return
	}
	response.Document(c, body)
}

// PutItems 用请求体整体覆盖文档
func (h *Handler) PutItems(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		handlershared.RequestLog(c).Errorw("items_write_failed", "error", err)
		response.DocumentError(c, itemsWriteFailedMessage)
		return
	}
	if err := h.DocumentService.Replace(c.Request.Context(), body); err != nil {
		handlershared.RequestLog(c).Errorw("items_write_failed", "bytes", len(body), "error", err)
		response.DocumentError(c, itemsWriteFailedMessage)
		return
	}
	response.Saved(c)
}
