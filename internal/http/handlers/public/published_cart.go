package public

import (
	"github.com/kitchen-cart/internal/http/response"
	"github.com/kitchen-cart/internal/models"

	"github.com/gin-gonic/gin"
)

// UpdatePublishedCartRequest 整体替换快照行列表
type UpdatePublishedCartRequest struct {
	Items []models.CartLine `json:"items" binding:"required"`
}

// ListPublishedCarts 按发布时间倒序列出快照
func (h *Handler) ListPublishedCarts(c *gin.Context) {
	response.Success(c, gin.H{"items": h.Session.PublishedNewestFirst()})
}

// UpdatePublishedCart 修改快照
func (h *Handler) UpdatePublishedCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdatePublishedCartRequest
	if !bindJSON(c, &req) {
		return
	}
	changed, err := h.Session.UpdatePublishedCart(c.Request.Context(), id, req.Items)
	respondSessionResult(c, changedPayload(changed), err)
}

// DeletePublishedCart 删除快照
func (h *Handler) DeletePublishedCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	changed, err := h.Session.DeletePublishedCart(c.Request.Context(), id)
	respondSessionResult(c, changedPayload(changed), err)
}

// CopyPublishedCart 将快照复制到购物车
func (h *Handler) CopyPublishedCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	added, err := h.Session.CopyPublishedToCart(c.Request.Context(), id)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, gin.H{"changed": len(added) > 0, "items": added})
}

// publishedPayload 展开为 gin.H，写回失败附带 request_id 时保持同一结构
func publishedPayload(cart *models.PublishedCart) gin.H {
	return gin.H{
		"id":          cart.ID,
		"publishedAt": cart.PublishedAt,
		"items":       cart.Items,
	}
}
