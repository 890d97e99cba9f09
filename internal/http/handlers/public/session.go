package public

import (
	"github.com/kitchen-cart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSession 获取会话快照
func (h *Handler) GetSession(c *gin.Context) {
	response.Success(c, h.Session.Snapshot())
}

// ReloadSession 重新加载文档与草稿
func (h *Handler) ReloadSession(c *gin.Context) {
	if err := h.Session.Load(c.Request.Context()); err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, h.Session.Snapshot())
}
