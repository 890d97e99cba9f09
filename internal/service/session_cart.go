package service

import (
	"context"
	"strings"

	"github.com/kitchen-cart/internal/models"
)

// AddToCartInput 从目录加入购物车
type AddToCartInput struct {
	ItemID   string
	Quantity models.Quantity
	Unit     string // 为空时使用商品默认单位
}

// Cart 返回当前购物车的拷贝
func (s *Session) Cart() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nonNilLines(models.CloneCartLines(s.cart))
}

// AddToCart 将目录商品加入购物车
func (s *Session) AddToCart(ctx context.Context, input AddToCartInput) (*models.CartLine, error) {
	if !input.Quantity.IsPositive() {
		return nil, ErrQuantityInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return nil, err
	}
	item, ok := s.doc.FindItem(strings.TrimSpace(input.ItemID))
	if !ok {
		return nil, ErrItemNotFound
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = item.Unit
	}

	line := models.CartLine{
		ID:       s.ids.Next(item.ID),
		ItemID:   item.ID,
		Name:     item.Name,
		Store:    item.Store,
		Quantity: input.Quantity,
		Unit:     unit,
		AddedAt:  s.ids.Now(),
	}
	s.cart = append(s.cart, line)
	s.saveDraftLocked(ctx)
	return &line, nil
}

// UpdateCartQuantity 修改购物车行数量；行不存在或数量不大于 0 时忽略
func (s *Session) UpdateCartQuantity(ctx context.Context, lineID string, quantity models.Quantity) bool {
	if !quantity.IsPositive() {
		return false
	}
	return s.updateLine(ctx, lineID, func(line *models.CartLine) {
		line.Quantity = quantity
	})
}

// UpdateCartUnit 修改购物车行单位；行不存在时忽略
func (s *Session) UpdateCartUnit(ctx context.Context, lineID string, unit string) bool {
	return s.updateLine(ctx, lineID, func(line *models.CartLine) {
		line.Unit = unit
	})
}

// RemoveFromCart 删除购物车行；行不存在时忽略
func (s *Session) RemoveFromCart(ctx context.Context, lineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfLine(s.cart, lineID)
	if idx < 0 {
		return false
	}
	s.cart = append(s.cart[:idx:idx], s.cart[idx+1:]...)
	s.saveDraftLocked(ctx)
	return true
}

func (s *Session) updateLine(ctx context.Context, lineID string, mutate func(line *models.CartLine)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfLine(s.cart, lineID)
	if idx < 0 {
		return false
	}
	mutate(&s.cart[idx])
	s.saveDraftLocked(ctx)
	return true
}

// Publish 将购物车发布为快照并写回文档，随后清空购物车
// 写回失败时快照仍保留在内存中，购物车同样被清空。
func (s *Session) Publish(ctx context.Context) (*models.PublishedCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return nil, err
	}
	if len(s.cart) == 0 {
		return nil, ErrCartEmpty
	}

	published := models.PublishedCart{
		ID:          s.ids.Next(publishedIDSource),
		PublishedAt: s.ids.Now(),
		Items:       models.CloneCartLines(s.cart),
	}
	s.doc.PublishedCarts = append(s.doc.PublishedCarts, published)
	persistErr := s.persistLocked(ctx, "publish")

	s.cart = []models.CartLine{}
	s.saveDraftLocked(ctx)

	result := published.Clone()
	return &result, persistErr
}

func indexOfLine(lines []models.CartLine, id string) int {
	for i := range lines {
		if lines[i].ID == id {
			return i
		}
	}
	return -1
}
