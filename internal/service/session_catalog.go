package service

import (
	"strings"

	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/models"
)

// CategoryGroup 分类及其商品
type CategoryGroup struct {
	Category string               `json:"category"`
	Items    []models.CatalogItem `json:"items"`
}

// Units 返回可选单位
func (s *Session) Units() []models.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || len(s.doc.Units) == 0 {
		return []models.Unit{}
	}
	return append([]models.Unit(nil), s.doc.Units...)
}

// SearchItems 按名称、门店、分类做不区分大小写的子串匹配；空查询返回全部
func (s *Session) SearchItems(query string) []models.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchLocked(query)
}

// GroupByCategory 按固定分类顺序分组，跳过没有商品的分类
func (s *Session) GroupByCategory(query string) []CategoryGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.searchLocked(query)
	groups := make([]CategoryGroup, 0, len(constants.Categories))
	for _, category := range constants.Categories {
		var matched []models.CatalogItem
		for _, item := range items {
			if item.Category == category {
				matched = append(matched, item)
			}
		}
		if len(matched) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: category, Items: matched})
	}
	return groups
}

func (s *Session) searchLocked(query string) []models.CatalogItem {
	result := []models.CatalogItem{}
	if s.doc == nil {
		return result
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, item := range s.doc.Items {
		if needle == "" || matchesItem(item, needle) {
			result = append(result, item)
		}
	}
	return result
}

func matchesItem(item models.CatalogItem, needle string) bool {
	return strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.Store), needle) ||
		strings.Contains(strings.ToLower(item.Category), needle)
}
