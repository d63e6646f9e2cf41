package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/internal/service"
	"github.com/d60-Lab/contact-desk/pkg/logger"
)

// StatsKey 统计快照在 Redis 中的 key
const StatsKey = "contactdesk:stats"

// StatsMetrics 命中/回源计数
type StatsMetrics struct {
	Hits   int64
	Misses int64
}

// ModerationService 在 service.ModerationService 外包一层统计缓存（cache-aside）。
// 标记已读与删除成功后清除快照；新留言在 TTL 内可能不计入统计。
type ModerationService struct {
	service.ModerationService
	cache redis.Cmdable
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewModerationService(next service.ModerationService, cache redis.Cmdable, ttl time.Duration) *ModerationService {
	return &ModerationService{ModerationService: next, cache: cache, ttl: ttl}
}

// Stats 先读缓存，未命中或 Redis 不可用时回源
func (s *ModerationService) Stats(ctx context.Context) (*model.MessageStats, error) {
	if data, err := s.cache.Get(ctx, StatsKey).Bytes(); err == nil {
		var st model.MessageStats
		if uErr := json.Unmarshal(data, &st); uErr == nil {
			s.hits.Add(1)
			return &st, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("stats cache read failed", zap.Error(err))
	}

	s.misses.Add(1)
	st, err := s.ModerationService.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(st); err == nil {
		if err := s.cache.Set(ctx, StatsKey, payload, s.ttl).Err(); err != nil {
			logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return st, nil
}

func (s *ModerationService) MarkRead(ctx context.Context, id uint) error {
	if err := s.ModerationService.MarkRead(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ModerationService) Delete(ctx context.Context, id uint) error {
	if err := s.ModerationService.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ModerationService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, StatsKey).Err(); err != nil {
		logger.Warn("stats cache invalidate failed", zap.Error(err))
	}
}

func (s *ModerationService) Metrics() StatsMetrics {
	return StatsMetrics{Hits: s.hits.Load(), Misses: s.misses.Load()}
}
