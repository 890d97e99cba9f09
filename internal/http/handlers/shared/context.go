package shared

import (
	"strings"

	"github.com/kitchen-cart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PathParam 读取非空路径参数，缺失时已写出 400 响应
func PathParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return "", false
	}
	return value, true
}

// BindJSON 绑定 JSON 请求体，失败时已写出 400 响应
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		RequestLog(c).Warnw("request_bind_failed",
			"route", c.FullPath(),
			"content_type", c.ContentType(),
			"error", err,
		)
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return false
	}
	return true
}
