package models

import "time"

// DocumentRecord 数据库中的文档行（按键整体存储 JSON 文本）
type DocumentRecord struct {
	Key       string    `gorm:"primarykey;type:varchar(64)" json:"key"` // 文档键
	Body      string    `gorm:"type:text;not null" json:"body"`          // 文档 JSON 原文
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                 // 更新时间
}

// TableName 指定表名
func (DocumentRecord) TableName() string {
	return "documents"
}
