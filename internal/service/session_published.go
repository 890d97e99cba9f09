package service

import (
	"context"
	"strings"

	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/models"
)

const publishedIDSource = constants.IDPrefixPublished

// PublishedCarts 按发布顺序返回已发布购物车
func (s *Session) PublishedCarts() []models.PublishedCart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishedLocked()
}

// PublishedNewestFirst 按发布时间倒序返回已发布购物车
func (s *Session) PublishedNewestFirst() []models.PublishedCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := s.publishedLocked()
	for i, j := 0, len(carts)-1; i < j; i, j = i+1, j-1 {
		carts[i], carts[j] = carts[j], carts[i]
	}
	return carts
}

// UpdatePublishedCart 整体替换快照的行列表并写回
// 快照不存在时返回 false 且不写回；任一行数量不大于 0 时拒绝整个列表。
func (s *Session) UpdatePublishedCart(ctx context.Context, id string, lines []models.CartLine) (bool, error) {
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return false, ErrQuantityInvalid
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return false, err
	}
	idx := s.indexOfPublishedLocked(id)
	if idx < 0 {
		return false, nil
	}
	s.doc.PublishedCarts[idx].Items = s.normalizeLinesLocked(lines)
	return true, s.persistLocked(ctx, "update_published_cart")
}

// DeletePublishedCart 删除快照并写回
func (s *Session) DeletePublishedCart(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return false, err
	}
	idx := s.indexOfPublishedLocked(id)
	if idx < 0 {
		return false, nil
	}
	carts := s.doc.PublishedCarts
	s.doc.PublishedCarts = append(carts[:idx:idx], carts[idx+1:]...)
	return true, s.persistLocked(ctx, "delete_published_cart")
}

// CopyPublishedToCart 将快照中的行以新标识符追加到购物车，不写回文档
func (s *Session) CopyPublishedToCart(ctx context.Context, id string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLoadedLocked(); err != nil {
		return nil, err
	}
	idx := s.indexOfPublishedLocked(id)
	if idx < 0 {
		return []models.CartLine{}, nil
	}
	source := s.doc.PublishedCarts[idx].Items
	added := make([]models.CartLine, 0, len(source))
	for _, line := range source {
		added = append(added, models.CartLine{
			ID:       s.ids.Next(line.ItemID),
			ItemID:   line.ItemID,
			Name:     line.Name,
			Store:    line.Store,
			Quantity: line.Quantity,
			Unit:     line.Unit,
			AddedAt:  s.ids.Now(),
		})
	}
	if len(added) == 0 {
		return added, nil
	}
	s.cart = append(s.cart, added...)
	s.saveDraftLocked(ctx)
	return models.CloneCartLines(added), nil
}

// normalizeLinesLocked 拷贝行列表，空或重复的标识符重新生成，缺失的加入时间补为当前时间
func (s *Session) normalizeLinesLocked(lines []models.CartLine) []models.CartLine {
	normalized := models.CloneCartLines(lines)
	if normalized == nil {
		return []models.CartLine{}
	}
	seen := make(map[string]struct{}, len(normalized))
	for i := range normalized {
		line := &normalized[i]
		line.ID = strings.TrimSpace(line.ID)
		if _, dup := seen[line.ID]; line.ID == "" || dup {
			line.ID = s.ids.Next(line.ItemID)
		}
		seen[line.ID] = struct{}{}
		if line.AddedAt.IsZero() {
			line.AddedAt = s.ids.Now()
		}
	}
	return normalized
}

func (s *Session) publishedLocked() []models.PublishedCart {
	if s.doc == nil || len(s.doc.PublishedCarts) == 0 {
		return []models.PublishedCart{}
	}
	carts := make([]models.PublishedCart, len(s.doc.PublishedCarts))
	for i, cart := range s.doc.PublishedCarts {
		carts[i] = cart.Clone()
	}
	return carts
}

func (s *Session) indexOfPublishedLocked(id string) int {
	for i := range s.doc.PublishedCarts {
		if s.doc.PublishedCarts[i].ID == id {
			return i
		}
	}
	return -1
}
