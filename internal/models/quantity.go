package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity 购物数量（整数或小数，JSON 中以数字输出）
type Quantity struct {
	decimal.Decimal
}

// NewQuantity 从 decimal 创建数量
func NewQuantity(value decimal.Decimal) Quantity {
	return Quantity{Decimal: value}
}

// QuantityFromInt 从整数创建数量
func QuantityFromInt(value int64) Quantity {
	return Quantity{Decimal: decimal.NewFromInt(value)}
}

// ParseQuantity 解析字符串数量
func ParseQuantity(raw string) (Quantity, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", raw, err)
	}
	return Quantity{Decimal: d}, nil
}

// IsPositive 数量是否大于 0
func (q Quantity) IsPositive() bool {
	return q.Decimal.IsPositive()
}

// MarshalJSON 输出为 JSON 数字，兼容前端 number 类型
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.Decimal.String()), nil
}

// UnmarshalJSON 解析数量（数字或字符串）
func (q *Quantity) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		q.Decimal = decimal.Zero
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		q.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return err
	}
	q.Decimal = d
	return nil
}

// String 返回数量文本
func (q Quantity) String() string {
	return q.Decimal.String()
}
