package public

import (
	"github.com/kitchen-cart/internal/http/response"
	"github.com/kitchen-cart/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateExtraItemRequest 修改历史记录请求
type UpdateExtraItemRequest struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Store    *string `json:"store"`
	Category *string `json:"category"`
}

// ListExtraItems 列出额外商品历史
func (h *Handler) ListExtraItems(c *gin.Context) {
	response.Success(c, gin.H{"items": h.Session.ExtraItems()})
}

// UpdateExtraItem 修改历史记录
func (h *Handler) UpdateExtraItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateExtraItemRequest
	if !bindJSON(c, &req) {
		return
	}
	changed, err := h.Session.UpdateExtraItem(c.Request.Context(), id, service.UpdateExtraItemInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Store:    req.Store,
		Category: req.Category,
	})
	respondSessionResult(c, changedPayload(changed), err)
}

// DeleteExtraItem 删除历史记录
func (h *Handler) DeleteExtraItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	changed, err := h.Session.DeleteExtraItem(c.Request.Context(), id)
	respondSessionResult(c, changedPayload(changed), err)
}
