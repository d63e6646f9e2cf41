package ratelimit

import (
	"context"
	"hash/maphash"
	"sync"
	"time"
)

const shardCount = 64

type window struct {
	count   int64
	expires time.Time
}

type shard struct {
	mu sync.Mutex
	m  map[string]*window
}

// MemoryStore 进程内计数，按 key 哈希分片加锁
type MemoryStore struct {
	seed   maphash.Seed
	shards [shardCount]shard
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore { return NewMemoryStoreWithClock(time.Now) }

// NewMemoryStoreWithClock 注入时钟（测试用）
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	s := &MemoryStore{seed: maphash.MakeSeed(), now: now}
	for i := range s.shards {
		s.shards[i].m = make(map[string]*window)
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *shard {
	return &s.shards[maphash.String(s.seed, key)%shardCount]
}

func (s *MemoryStore) Hit(_ context.Context, key string, d time.Duration) (int64, time.Duration, error) {
	now := s.now()
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	w, ok := sh.m[key]
	if !ok || !now.Before(w.expires) {
		w = &window{expires: now.Add(d)}
		sh.m[key] = w
	}
	w.count++
	return w.count, w.expires.Sub(now), nil
}

// Sweep 清理已过期窗口，返回清理数量
func (s *MemoryStore) Sweep() int {
	now := s.now()
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for k, w := range sh.m {
			if !now.Before(w.expires) {
				delete(sh.m, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len 当前跟踪的 key 数
func (s *MemoryStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.m)
		sh.mu.Unlock()
	}
	return n
}

// StartSweeper 周期清理，ctx 取消后退出
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}
