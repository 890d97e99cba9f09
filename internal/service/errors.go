package service

import "errors"

// 文档读写错误
var (
	ErrDocumentReadFailed  = errors.New("文档读取失败")
	ErrDocumentWriteFailed = errors.New("文档写入失败")
	ErrDocumentMalformed   = errors.New("文档不是有效的 JSON")
)

// 会话错误
var (
	ErrNotLoaded       = errors.New("数据尚未加载")
	ErrLoadFailed      = errors.New("数据加载失败")
	ErrPersistFailed   = errors.New("数据保存失败")
	ErrQuantityInvalid = errors.New("数量必须大于 0")
	ErrNameRequired    = errors.New("名称不能为空")
	ErrItemNotFound    = errors.New("商品不存在")
	ErrCartEmpty       = errors.New("购物车为空")
)

// 备份错误
var (
	ErrBackupDisabled = errors.New("文档备份未启用")
)
