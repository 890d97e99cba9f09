package shared

import (
	"github.com/kitchen-cart/internal/http/response"
	"github.com/kitchen-cart/internal/i18n"
	"github.com/kitchen-cart/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if id := response.RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 按请求语言返回错误响应，err 非空时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, err, nil)
}

// RespondErrorWithData 同 RespondError 并附带数据。
// 写回失败但内存状态已变更时，调用方仍可拿到变更结果。
func RespondErrorWithData(c *gin.Context, code int, key string, err error, data interface{}) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"key", key,
			"message", msg,
			"error", err,
		)
	}
	response.ErrorWithData(c, code, msg, data)
}
