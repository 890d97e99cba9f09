package public

import (
	"errors"

	handlershared "github.com/kitchen-cart/internal/http/handlers/shared"
	"github.com/kitchen-cart/internal/http/response"
	"github.com/kitchen-cart/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var sessionErrorRules = []mappedHandlerError{
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrNameRequired, code: response.CodeBadRequest, key: "error.name_required"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrItemNotFound, code: response.CodeNotFound, key: "error.item_not_found"},
	{target: service.ErrNotLoaded, code: response.CodeUnavailable, key: "error.not_loaded"},
	{target: service.ErrLoadFailed, code: response.CodeUnavailable, key: "error.load_failed"},
	{target: service.ErrPersistFailed, code: response.CodeInternal, key: "error.persist_failed"},
}

func respondSessionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, sessionErrorRules, response.CodeInternal, "error.internal")
}

// respondSessionResult 写回失败时内存状态已变更，仍把结果随错误一起返回
func respondSessionResult(c *gin.Context, data interface{}, err error) {
	if err == nil {
		response.Success(c, data)
		return
	}
	if errors.Is(err, service.ErrPersistFailed) && data != nil {
		handlershared.RespondErrorWithData(c, response.CodeInternal, "error.persist_failed", err, data)
		return
	}
	respondSessionError(c, err)
}

func changedPayload(changed bool) gin.H {
	return gin.H{"changed": changed}
}
