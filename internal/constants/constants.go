package constants

// 存储驱动常量
const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// 草稿缓存后端常量
const (
	DraftBackendFile  = "file"
	DraftBackendRedis = "redis"
)

// DefaultDocumentKey 数据库存储时文档所在行的键
const DefaultDocumentKey = "items"

// DefaultDraftKey 草稿购物车的固定槽位名称
const DefaultDraftKey = "cart"

// 标识符前缀
const (
	IDPrefixPublished = "published"
	IDPrefixExtra     = "extra"
)

// 队列名称
const (
	QueueDefault = "default"
)

// 异步任务类型
const (
	TaskDocumentBackup = "document:backup"
)

// 备份触发原因
const (
	BackupReasonReplace  = "replace"
	BackupReasonSchedule = "schedule"
	BackupReasonManual   = "manual"
)

// Categories 界面层使用的固定分类列表（顺序即展示顺序）
var Categories = []string{
	"Produce (veg & fruit)",
	"Fresh herbs & aromatics",
	"Dairy and Eggs",
	"Bakery",
	"Dry goods & grains",
	"Legumes & pulses (dry)",
	"Oils & fats",
	"Spices (whole)",
	"Spices & masalas (ground)",
	"Condiments & sauces",
	"Nuts & baking",
	"Frozen",
	"Canned & jarred",
}
