package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLength = 8

// IDGenerator 生成 <来源>-<毫秒时间戳>-<随机后缀> 形式的标识符
// 同一毫秒内多次生成依靠随机后缀区分。
type IDGenerator struct {
	now    func() time.Time
	suffix func() string
}

// NewIDGenerator 创建默认标识符生成器
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		now:    time.Now,
		suffix: randomSuffix,
	}
}

// NewIDGeneratorWithClock 使用指定时钟创建生成器
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	g := NewIDGenerator()
	if now != nil {
		g.now = now
	}
	return g
}

// Now 当前时间（UTC，毫秒精度）
func (g *IDGenerator) Now() time.Time {
	return g.now().UTC().Truncate(time.Millisecond)
}

// Next 基于来源前缀生成新标识符
func (g *IDGenerator) Next(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		source = "id"
	}
	return fmt.Sprintf("%s-%d-%s", source, g.now().UnixMilli(), g.suffix())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
}
