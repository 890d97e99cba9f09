package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"

	DefaultLocale = LocaleEnUS
)

var messages = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":            "Invalid request",
		"error.not_loaded":             "Data is still loading, please try again",
		"error.load_failed":            "Failed to load data",
		"error.persist_failed":         "Failed to save changes",
		"error.quantity_invalid":       "Please enter a quantity greater than 0",
		"error.name_required":          "Please enter an item name",
		"error.item_not_found":         "Item not found",
		"error.cart_empty":             "Your cart is empty. Add items before publishing.",
		"error.backup_disabled":        "Document backups are disabled",
		"error.backup_failed":          "Failed to back up document",
		"error.internal":               "Internal server error",
		"error.rate_limited":           "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limiter unavailable",
		"error.not_found":              "Resource not found",
		"session.changed":              "Updated",
		"session.unchanged":            "Nothing to update",
	},
	LocaleZhCN: {
		"error.bad_request":            "请求参数错误",
		"error.not_loaded":             "数据加载中，请稍后重试",
		"error.load_failed":            "数据加载失败",
		"error.persist_failed":         "保存失败",
		"error.quantity_invalid":       "请输入大于 0 的数量",
		"error.name_required":          "请输入商品名称",
		"error.item_not_found":         "商品不存在",
		"error.cart_empty":             "购物车为空，请先添加商品再发布",
		"error.backup_disabled":        "文档备份未启用",
		"error.backup_failed":          "文档备份失败",
		"error.internal":               "服务器内部错误",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.not_found":              "资源不存在",
		"session.changed":              "已更新",
		"session.unchanged":            "无需更新",
	},
}

// T 翻译 key，缺失时回退到默认语言，再缺失时返回 key 本身
func T(locale, key string) string {
	if table, ok := messages[NormalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译后格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 依次读取 lang 查询参数与 Accept-Language 请求头
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if locale := matchLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标识，不支持的语言返回默认语言
func NormalizeLocale(raw string) string {
	if locale := matchLocale(raw); locale != "" {
		return locale
	}
	return DefaultLocale
}

func matchLocale(raw string) string {
	tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	switch {
	case tag == "":
		return ""
	case strings.HasPrefix(tag, "zh"):
		return LocaleZhCN
	case strings.HasPrefix(tag, "en"):
		return LocaleEnUS
	default:
		return ""
	}
}
