package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kitchen-cart/internal/cache"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/models"
)

// DraftStore 草稿购物车的本地槽位
type DraftStore interface {
	Load(ctx context.Context) ([]models.CartLine, error)
	Save(ctx context.Context, lines []models.CartLine) error
}

// Session 目录与历史的内存状态
// 创建后为未加载状态，需调用 Load；所有操作串行执行。
// 购物车只写入草稿槽位，已发布购物车与额外商品历史变更后整体写回文档。
type Session struct {
	mu     sync.Mutex
	client DocumentClient
	drafts DraftStore
	ids    *IDGenerator

	loaded     bool
	loadFailed bool
	doc        *models.Document
	cart       []models.CartLine
}

// SessionSnapshot 会话状态快照
type SessionSnapshot struct {
	Loaded            bool                   `json:"loaded"`
	LoadFailed        bool                   `json:"load_failed"`
	Stores            []string               `json:"stores"`
	Units             []models.Unit          `json:"units"`
	Items             []models.CatalogItem   `json:"items"`
	Cart              []models.CartLine      `json:"cart"`
	PublishedCarts    []models.PublishedCart `json:"published_carts"`
	ExtraItemsHistory []models.ExtraItem     `json:"extra_items_history"`
}

// NewSession 创建会话；ids 为空时使用默认生成器
func NewSession(client DocumentClient, drafts DraftStore, ids *IDGenerator) *Session {
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &Session{
		client: client,
		drafts: drafts,
		ids:    ids,
		cart:   []models.CartLine{},
	}
}

// Load 读取文档并从草稿槽位恢复购物车
// 草稿缺失或损坏时购物车为空；文档读取失败时目录为空并标记加载失败。
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = s.loadDraftLocked(ctx)

	doc, err := s.client.Retrieve(ctx)
	if err != nil {
		s.loaded = false
		s.loadFailed = true
		s.doc = nil
		logger.Errorw("session_load_failed", "error", err)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	s.doc = doc
	s.loaded = true
	s.loadFailed = false
	logger.Infow("session_loaded",
		"items", len(doc.Items),
		"published_carts", len(doc.PublishedCarts),
		"extra_items", len(doc.ExtraItemsHistory),
		"cart_lines", len(s.cart),
	)
	return nil
}

// Loaded 文档是否已加载
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Snapshot 返回当前状态的深拷贝
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := SessionSnapshot{
		Loaded:            s.loaded,
		LoadFailed:        s.loadFailed,
		Stores:            []string{},
		Units:             []models.Unit{},
		Items:             []models.CatalogItem{},
		Cart:              nonNilLines(models.CloneCartLines(s.cart)),
		PublishedCarts:    []models.PublishedCart{},
		ExtraItemsHistory: []models.ExtraItem{},
	}
	if s.doc == nil {
		return snapshot
	}
	doc := s.doc.Clone()
	if doc.Stores != nil {
		snapshot.Stores = doc.Stores
	}
	if doc.Units != nil {
		snapshot.Units = doc.Units
	}
	if doc.Items != nil {
		snapshot.Items = doc.Items
	}
	if doc.PublishedCarts != nil {
		snapshot.PublishedCarts = doc.PublishedCarts
	}
	if doc.ExtraItemsHistory != nil {
		snapshot.ExtraItemsHistory = doc.ExtraItemsHistory
	}
	return snapshot
}

// persistLocked 将当前文档整体写回
// 写入失败时不回滚内存状态，内存与存储会不一致直到下次成功写入或重新加载。
func (s *Session) persistLocked(ctx context.Context, op string) error {
	if err := s.client.Replace(ctx, s.doc); err != nil {
		logger.Errorw("session_persist_failed", "op", op, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}

func (s *Session) loadDraftLocked(ctx context.Context) []models.CartLine {
	if s.drafts == nil {
		return []models.CartLine{}
	}
	lines, err := s.drafts.Load(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrDraftCorrupt) {
			logger.Warnw("draft_cache_parse_failed", "error", err)
		} else {
			logger.Warnw("draft_cache_load_failed", "error", err)
		}
		return []models.CartLine{}
	}
	return nonNilLines(lines)
}

// saveDraftLocked 草稿仅尽力写入，失败只记录日志
func (s *Session) saveDraftLocked(ctx context.Context) {
	if s.drafts == nil {
		return
	}
	if err := s.drafts.Save(ctx, models.CloneCartLines(s.cart)); err != nil {
		logger.Warnw("draft_cache_save_failed", "error", err)
	}
}

func (s *Session) requireLoadedLocked() error {
	if !s.loaded || s.doc == nil {
		return ErrNotLoaded
	}
	return nil
}

func nonNilLines(lines []models.CartLine) []models.CartLine {
	if lines == nil {
		return []models.CartLine{}
	}
	return lines
}
