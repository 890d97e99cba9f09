package admin

import (
	handlershared "github.com/kitchen-cart/internal/http/handlers/shared"
	"github.com/kitchen-cart/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 备份等运维接口
type Handler struct {
	*provider.Container
}

// New 创建运维处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
