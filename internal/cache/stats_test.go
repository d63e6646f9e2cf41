package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/internal/service"
)

type countingModeration struct {
	service.ModerationService
	calls int
	stats model.MessageStats
	err   error
}

func (c *countingModeration) Stats(ctx context.Context) (*model.MessageStats, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	st := c.stats
	return &st, nil
}

func (c *countingModeration) MarkRead(ctx context.Context, id uint) error {
	if id == 0 {
		return service.ErrMessageNotFound
	}
	c.stats.Unread--
	return nil
}

func (c *countingModeration) Delete(ctx context.Context, id uint) error {
	c.stats.Total--
	return nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *countingModeration, *ModerationService) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	next := &countingModeration{stats: model.MessageStats{Total: 5, Unread: 3, Today: 1, Week: 4}}
	return mr, next, NewModerationService(next, rdb, time.Minute)
}

func TestStats_CachesUntilTTL(t *testing.T) {
	mr, next, svc := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		st, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 5, st.Total)
	}
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, StatsMetrics{Hits: 2, Misses: 1}, svc.Metrics())

	mr.FastForward(2 * time.Minute)
	_, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestStats_InvalidatedByMutations(t *testing.T) {
	mr, next, svc := setup(t)
	ctx := context.Background()

	_, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(StatsKey))

	require.NoError(t, svc.MarkRead(ctx, 1))
	assert.False(t, mr.Exists(StatsKey))
	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Unread)

	require.NoError(t, svc.Delete(ctx, 1))
	st, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, st.Total)
	assert.Equal(t, 3, next.calls)

	// 失败的变更不清缓存
	assert.ErrorIs(t, svc.MarkRead(ctx, 0), service.ErrMessageNotFound)
	assert.True(t, mr.Exists(StatsKey))
}

func TestStats_RedisDownFallsBack(t *testing.T) {
	mr, next, svc := setup(t)
	mr.Close()

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, st.Total)
	assert.Equal(t, 1, next.calls)
}

func TestStats_ErrorNotCached(t *testing.T) {
	mr, next, svc := setup(t)
	next.err = errors.New("boom")

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists(StatsKey))
}
