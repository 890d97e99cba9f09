package models

import (
	"encoding/json"
	"time"
)

// Unit 计量单位
type Unit struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// CatalogItem 目录商品（只读参考数据）
type CatalogItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Store    string `json:"store"`
	Unit     string `json:"unit"` // 默认单位缩写
}

// CartLine 购物车行，名称与门店在加入时冗余保存
type CartLine struct {
	ID       string    `json:"id"`
	ItemID   string    `json:"itemId"`
	Name     string    `json:"name"`
	Store    string    `json:"store"`
	Quantity Quantity  `json:"quantity"`
	Unit     string    `json:"unit"`
	AddedAt  time.Time `json:"addedAt"`
}

// PublishedCart 已发布的购物车快照
type PublishedCart struct {
	ID          string     `json:"id"`
	PublishedAt time.Time  `json:"publishedAt"`
	Items       []CartLine `json:"items"`
}

// ExtraItem 额外商品历史记录
type ExtraItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Store    *string   `json:"store,omitempty"`
	Category *string   `json:"category,omitempty"`
	Unit     string    `json:"unit"`
	AddedAt  time.Time `json:"addedAt"`
}

// Document 持久化文档根结构
// PublishedCarts / ExtraItemsHistory 为 nil 时不输出，非 nil（含空切片）时输出。
// 未识别的顶层字段保存在 Extra 中，写回时原样保留。
type Document struct {
	Stores            []string
	Units             []Unit
	Items             []CatalogItem
	PublishedCarts    []PublishedCart
	ExtraItemsHistory []ExtraItem
	Extra             map[string]json.RawMessage
}

const (
	docKeyStores            = "stores"
	docKeyUnits             = "units"
	docKeyItems             = "items"
	docKeyPublishedCarts    = "publishedCarts"
	docKeyExtraItemsHistory = "extraItemsHistory"
)

type documentFields struct {
	Stores            []string        `json:"stores"`
	Units             []Unit          `json:"units"`
	Items             []CatalogItem   `json:"items"`
	PublishedCarts    []PublishedCart `json:"publishedCarts"`
	ExtraItemsHistory []ExtraItem     `json:"extraItemsHistory"`
}

// UnmarshalJSON 解析文档并保留未知字段
func (d *Document) UnmarshalJSON(b []byte) error {
	var fields documentFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, key := range []string{docKeyStores, docKeyUnits, docKeyItems, docKeyPublishedCarts, docKeyExtraItemsHistory} {
		delete(raw, key)
	}
	if len(raw) == 0 {
		raw = nil
	}
	*d = Document{
		Stores:            fields.Stores,
		Units:             fields.Units,
		Items:             fields.Items,
		PublishedCarts:    fields.PublishedCarts,
		ExtraItemsHistory: fields.ExtraItemsHistory,
		Extra:             raw,
	}
	return nil
}

// MarshalJSON 输出文档，可选集合仅在非 nil 时输出
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Extra)+5)
	for key, value := range d.Extra {
		out[key] = value
	}
	out[docKeyStores] = nonNilStrings(d.Stores)
	out[docKeyUnits] = nonNilUnits(d.Units)
	out[docKeyItems] = nonNilItems(d.Items)
	if d.PublishedCarts != nil {
		out[docKeyPublishedCarts] = d.PublishedCarts
	}
	if d.ExtraItemsHistory != nil {
		out[docKeyExtraItemsHistory] = d.ExtraItemsHistory
	}
	return json.Marshal(out)
}

// Clone 深拷贝文档
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := &Document{
		Stores:            cloneSlice(d.Stores),
		Units:             cloneSlice(d.Units),
		Items:             cloneSlice(d.Items),
		ExtraItemsHistory: CloneExtraItems(d.ExtraItemsHistory),
	}
	if d.PublishedCarts != nil {
		clone.PublishedCarts = make([]PublishedCart, len(d.PublishedCarts))
		for i, cart := range d.PublishedCarts {
			clone.PublishedCarts[i] = cart.Clone()
		}
	}
	if d.Extra != nil {
		clone.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for key, value := range d.Extra {
			clone.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return clone
}

// FindItem 按 ID 查找目录商品
func (d *Document) FindItem(id string) (CatalogItem, bool) {
	if d == nil {
		return CatalogItem{}, false
	}
	for _, item := range d.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// Clone 深拷贝发布快照
func (p PublishedCart) Clone() PublishedCart {
	p.Items = CloneCartLines(p.Items)
	return p
}

// CloneCartLines 深拷贝购物车行列表
func CloneCartLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// CloneExtraItems 深拷贝额外商品历史
func CloneExtraItems(items []ExtraItem) []ExtraItem {
	if items == nil {
		return nil
	}
	out := make([]ExtraItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// Clone 深拷贝历史记录（含可选字段指针）
func (e ExtraItem) Clone() ExtraItem {
	e.Store = cloneStringPtr(e.Store)
	e.Category = cloneStringPtr(e.Category)
	return e
}

// StoreValue 返回门店，未设置时为空字符串
func (e ExtraItem) StoreValue() string {
	if e.Store == nil {
		return ""
	}
	return *e.Store
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func nonNilUnits(in []Unit) []Unit {
	if in == nil {
		return []Unit{}
	}
	return in
}

func nonNilItems(in []CatalogItem) []CatalogItem {
	if in == nil {
		return []CatalogItem{}
	}
	return in
}
