package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/internal/repository"
)

// DefaultPageSize 未指定每页数量时的兜底值
const DefaultPageSize = 10

// ModerationService 管理端留言查询与状态变更
type ModerationService interface {
	List(ctx context.Context, page, pageSize int) (*model.MessagePage, error)
	Get(ctx context.Context, id uint) (*model.Message, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*model.MessageStats, error)
}

type moderationService struct {
	repo repository.MessageRepository
	now  func() time.Time
}

func NewModerationService(repo repository.MessageRepository) ModerationService {
	return NewModerationServiceWithClock(repo, time.Now)
}

// NewModerationServiceWithClock 注入时钟（统计“今天/本周”用）
func NewModerationServiceWithClock(repo repository.MessageRepository, now func() time.Time) ModerationService {
	return &moderationService{repo: repo, now: now}
}

// List 分页查询，不限制 pageSize 上限
func (s *moderationService) List(ctx context.Context, page, pageSize int) (*model.MessagePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	offset := (page - 1) * pageSize

	items, err := s.repo.List(ctx, offset, pageSize)
	if err != nil {
		return nil, storageErr("list messages", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, storageErr("count messages", err)
	}

	return &model.MessagePage{
		Messages:      items,
		CurrentPage:   page,
		TotalPages:    int((total + int64(pageSize) - 1) / int64(pageSize)),
		TotalMessages: total,
	}, nil
}

func (s *moderationService) Get(ctx context.Context, id uint) (*model.Message, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get message", err)
	}
	return msg, nil
}

// MarkRead 幂等
func (s *moderationService) MarkRead(ctx context.Context, id uint) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return storageErr("mark message read", err)
	}
	return nil
}

func (s *moderationService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageErr("delete message", err)
	}
	return nil
}

// Stats 四个计数并发独立查询，彼此不保证一致
func (s *moderationService) Stats(ctx context.Context) (*model.MessageStats, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -6)

	var st model.MessageStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Total, err = s.repo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.Unread, err = s.repo.CountUnread(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.Today, err = s.repo.CountSince(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		st.Week, err = s.repo.CountSince(gctx, weekStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageErr("message stats", err)
	}
	return &st, nil
}
