package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrRateLimited 当前窗口内请求数已达上限
var ErrRateLimited = errors.New("rate limited")

// Store 计数存储。Hit 原子地为 key 计数加一，返回加一后的计数与窗口剩余时间。
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// Result 一次准入判断
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetIn 窗口剩余时间，被拒绝时即 Retry-After
	ResetIn time.Duration
}

// Limiter 固定窗口限流器，按用途（submit / api）隔离计数
type Limiter struct {
	name   string
	store  Store
	max    int
	window time.Duration
}

func NewLimiter(name string, store Store, max int, window time.Duration) *Limiter {
	return &Limiter{name: name, store: store, max: max, window: window}
}

func (l *Limiter) Name() string { return l.name }

// Allow 每次调用都计数；计数超过上限时拒绝
func (l *Limiter) Allow(ctx context.Context, addr string) (Result, error) {
	count, resetIn, err := l.store.Hit(ctx, l.name+":"+addr, l.window)
	if err != nil {
		return Result{Allowed: true, Limit: l.max, Remaining: l.max, ResetIn: l.window}, err
	}
	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(l.max),
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
