package public

import (
	handlershared "github.com/kitchen-cart/internal/http/handlers/shared"
	"github.com/kitchen-cart/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 持久化端点与会话接口
// /api/items 直接读写存储，其余接口都经由进程内的 Session。
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func pathID(c *gin.Context) (string, bool) {
	return handlershared.PathParam(c, "id")
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	return handlershared.BindJSON(c, dest)
}
