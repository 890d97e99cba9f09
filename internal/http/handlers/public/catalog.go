package public

import (
	"github.com/kitchen-cart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SearchCatalog 按关键字搜索目录
func (h *Handler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	items := h.Session.SearchItems(query)
	response.Success(c, gin.H{
		"items": items,
		"total": len(h.Session.SearchItems("")),
		"query": query,
	})
}

// GroupCatalog 按分类分组返回目录
func (h *Handler) GroupCatalog(c *gin.Context) {
	response.Success(c, gin.H{
		"groups": h.Session.GroupByCategory(c.Query("q")),
		"units":  h.Session.Units(),
	})
}
