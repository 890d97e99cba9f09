package service

import (
	"context"
	"strings"

	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/models"
)

// AddExtraItemInput 自定义商品加入购物车
type AddExtraItemInput struct {
	Name     string
	Unit     string
	Quantity models.Quantity
	Store    *string
	Category *string
}

// UpdateExtraItemInput 修改额外商品历史
type UpdateExtraItemInput struct {
	Name     string
	Unit     string
	Store    *string
	Category *string
}

// ExtraItems 返回额外商品历史
func (s *Session) ExtraItems() []models.ExtraItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || s.doc.ExtraItemsHistory == nil {
		return []models.ExtraItem{}
	}
	return models.CloneExtraItems(s.doc.ExtraItemsHistory)
}

// AddExtraItem 新建历史记录并写回文档，同时向购物车追加对应行
// 写回失败时历史记录与购物车行仍保留在内存中，返回 ErrPersistFailed。
func (s *Session) AddExtraItem(ctx context.Context, input AddExtraItemInput) (*models.ExtraItem, *models.CartLine, error) {
	if !input.Quantity.IsPositive() {
		return nil, nil, ErrQuantityInvalid
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return nil, nil, err
	}

	entry := models.ExtraItem{
		ID:       s.ids.Next(constants.IDPrefixExtra),
		Name:     name,
		Store:    optionalText(input.Store),
		Category: optionalText(input.Category),
		Unit:     strings.TrimSpace(input.Unit),
		AddedAt:  s.ids.Now(),
	}
	s.doc.ExtraItemsHistory = append(s.doc.ExtraItemsHistory, entry)
	persistErr := s.persistLocked(ctx, "add_extra_item")

	line := s.appendExtraLineLocked(ctx, entry, input.Quantity)
	createdEntry := entry.Clone()
	return &createdEntry, &line, persistErr
}

// QuickAddFromHistory 按历史记录向购物车追加新行，记录不存在时忽略
func (s *Session) QuickAddFromHistory(ctx context.Context, entryID string, quantity models.Quantity) (*models.CartLine, error) {
	if !quantity.IsPositive() {
		return nil, ErrQuantityInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return nil, err
	}
	idx := s.indexOfExtraLocked(entryID)
	if idx < 0 {
		return nil, nil
	}
	line := s.appendExtraLineLocked(ctx, s.doc.ExtraItemsHistory[idx], quantity)
	return &line, nil
}

// UpdateExtraItem 替换历史记录字段并写回；已生成的购物车行不受影响
func (s *Session) UpdateExtraItem(ctx context.Context, id string, input UpdateExtraItemInput) (bool, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return false, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return false, err
	}
	idx := s.indexOfExtraLocked(id)
	if idx < 0 {
		return false, nil
	}
	entry := &s.doc.ExtraItemsHistory[idx]
	entry.Name = name
	entry.Unit = strings.TrimSpace(input.Unit)
	entry.Store = optionalText(input.Store)
	entry.Category = optionalText(input.Category)
	return true, s.persistLocked(ctx, "update_extra_item")
}

// DeleteExtraItem 删除历史记录并写回；已生成的购物车行不受影响
func (s *Session) DeleteExtraItem(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return false, err
	}
	idx := s.indexOfExtraLocked(id)
	if idx < 0 {
		return false, nil
	}
	history := s.doc.ExtraItemsHistory
	s.doc.ExtraItemsHistory = append(history[:idx:idx], history[idx+1:]...)
	return true, s.persistLocked(ctx, "delete_extra_item")
}

func (s *Session) appendExtraLineLocked(ctx context.Context, entry models.ExtraItem, quantity models.Quantity) models.CartLine {
	line := models.CartLine{
		ID:       s.ids.Next(entry.ID),
		ItemID:   entry.ID,
		Name:     entry.Name,
		Store:    entry.StoreValue(),
		Quantity: quantity,
		Unit:     entry.Unit,
		AddedAt:  s.ids.Now(),
	}
	s.cart = append(s.cart, line)
	s.saveDraftLocked(ctx)
	return line
}

func (s *Session) indexOfExtraLocked(id string) int {
	for i := range s.doc.ExtraItemsHistory {
		if s.doc.ExtraItemsHistory[i].ID == id {
			return i
		}
	}
	return -1
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
