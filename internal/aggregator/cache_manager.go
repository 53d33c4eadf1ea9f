package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"aable-presence/internal/models"

	"go.uber.org/zap"
)

// BatchCache 单次批处理的时间线缓存
// 键以批次 ID 为前缀，批处理结束时由调用方 Discard 清除
type BatchCache struct {
	batchID string
	kv      KVStore
	ttl     time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	identities []string
	seen       map[string]struct{}
}

// NewBatchCache 创建批次缓存
func NewBatchCache(batchID string, kv KVStore, ttl time.Duration, logger *zap.Logger) *BatchCache {
	return &BatchCache{
		batchID: batchID,
		kv:      kv,
		ttl:     ttl,
		logger:  logger,
		seen:    make(map[string]struct{}),
	}
}

// BatchID 批次 ID
func (c *BatchCache) BatchID() string {
	return c.batchID
}

func (c *BatchCache) timelineKey(identity string) string {
	return fmt.Sprintf("presence:batch:%s:timeline:%s", c.batchID, identity)
}

func (c *BatchCache) indexKey() string {
	return fmt.Sprintf("presence:batch:%s:index", c.batchID)
}

// PutTimeline 写入单个人员的时间线，并更新批次索引
func (c *BatchCache) PutTimeline(ctx context.Context, tl *models.IdentityTimeline) error {
	if tl == nil {
		return errors.New("timeline is nil")
	}
	key := c.timelineKey(tl.IdentityCode)

	jsonData, err := json.Marshal(tl)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}
	if err := c.kv.Set(ctx, key, string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	c.mu.Lock()
	if _, ok := c.seen[tl.IdentityCode]; !ok {
		c.seen[tl.IdentityCode] = struct{}{}
		c.identities = append(c.identities, tl.IdentityCode)
	}
	index := append([]string(nil), c.identities...)
	c.mu.Unlock()

	indexData, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	if err := c.kv.Set(ctx, c.indexKey(), string(indexData), c.ttl); err != nil {
		return fmt.Errorf("failed to set index: %w", err)
	}

	c.logger.Debug("Cached identity timeline",
		zap.String("batch_id", c.batchID),
		zap.String("identity_code", tl.IdentityCode),
		zap.String("key", key),
	)
	return nil
}

// GetTimeline 读取单个人员的时间线，不存在时返回 ErrCacheMiss
func (c *BatchCache) GetTimeline(ctx context.Context, identity string) (*models.IdentityTimeline, error) {
	raw, err := c.kv.Get(ctx, c.timelineKey(identity))
	if err != nil {
		return nil, err
	}
	var tl models.IdentityTimeline
	if err := json.Unmarshal([]byte(raw), &tl); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
	}
	return &tl, nil
}

// Identities 已缓存的人员（写入顺序）
func (c *BatchCache) Identities(ctx context.Context) ([]string, error) {
	raw, err := c.kv.Get(ctx, c.indexKey())
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return []string{}, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	return ids, nil
}

// Discard 删除本批次写入的全部键
func (c *BatchCache) Discard(ctx context.Context) error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.identities)+1)
	for _, id := range c.identities {
		keys = append(keys, c.timelineKey(id))
	}
	keys = append(keys, c.indexKey())
	c.identities = nil
	c.seen = make(map[string]struct{})
	c.mu.Unlock()

	if err := c.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to discard batch cache: %w", err)
	}
	c.logger.Debug("Discarded batch cache",
		zap.String("batch_id", c.batchID),
		zap.Int("keys", len(keys)),
	)
	return nil
}
