package public

import (
	"github.com/kitchen-cart/internal/http/response"
	"github.com/kitchen-cart/internal/models"
	"github.com/kitchen-cart/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 目录商品加入购物车请求
type AddCartItemRequest struct {
	ItemID   string          `json:"itemId" binding:"required"`
	Quantity models.Quantity `json:"quantity"`
	Unit     string          `json:"unit"`
}

// UpdateCartItemRequest 修改购物车行请求，字段缺省表示不修改
type UpdateCartItemRequest struct {
	Quantity *models.Quantity `json:"quantity"`
	Unit     *string          `json:"unit"`
}

// AddExtraCartItemRequest 自定义商品加入购物车请求
type AddExtraCartItemRequest struct {
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity models.Quantity `json:"quantity"`
	Store    *string         `json:"store"`
	Category *string         `json:"category"`
}

// QuickAddRequest 从历史记录快速加入请求
type QuickAddRequest struct {
	Quantity models.Quantity `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, gin.H{"items": h.Session.Cart()})
}

// AddCartItem 目录商品加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.Session.AddToCart(c.Request.Context(), service.AddToCartInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, line)
}

// UpdateCartItem 修改购物车行数量或单位
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == nil && req.Unit == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	// 数量与单位各自独立生效：数量不大于 0 时只忽略数量，单位照常修改
	ctx := c.Request.Context()
	changed := false
	if req.Quantity != nil {
		changed = h.Session.UpdateCartQuantity(ctx, id, *req.Quantity) || changed
	}
	if req.Unit != nil {
		changed = h.Session.UpdateCartUnit(ctx, id, *req.Unit) || changed
	}
	response.Success(c, changedPayload(changed))
}

// RemoveCartItem 删除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	response.Success(c, changedPayload(h.Session.RemoveFromCart(c.Request.Context(), id)))
}

// AddExtraCartItem 自定义商品加入购物车并记入历史
func (h *Handler) AddExtraCartItem(c *gin.Context) {
	var req AddExtraCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, line, err := h.Session.AddExtraItem(c.Request.Context(), service.AddExtraItemInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
		Store:    req.Store,
		Category: req.Category,
	})
	var data interface{}
	if entry != nil && line != nil {
		data = gin.H{"entry": entry, "line": line}
	}
	respondSessionResult(c, data, err)
}

// QuickAddFromHistory 按历史记录加入购物车
func (h *Handler) QuickAddFromHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req QuickAddRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.Session.QuickAddFromHistory(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	if line == nil {
		response.Success(c, changedPayload(false))
		return
	}
	response.Success(c, gin.H{"changed": true, "line": line})
}

// PublishCart 发布购物车
func (h *Handler) PublishCart(c *gin.Context) {
	published, err := h.Session.Publish(c.Request.Context())
	var data interface{}
	if published != nil {
		data = publishedPayload(published)
	}
	respondSessionResult(c, data, err)
}
