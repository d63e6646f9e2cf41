package service

import (
	"context"
	"sync"
	"time"

	"github.com/d60-Lab/contact-desk/internal/model"
)

type mockMessageRepository struct {
	createFunc      func(ctx context.Context, msg *model.Message) error
	listFunc        func(ctx context.Context, offset, limit int) ([]*model.Message, error)
	getByIDFunc     func(ctx context.Context, id uint) (*model.Message, error)
	markReadFunc    func(ctx context.Context, id uint) error
	deleteFunc      func(ctx context.Context, id uint) error
	countFunc       func(ctx context.Context) (int64, error)
	countUnreadFunc func(ctx context.Context) (int64, error)
	countSinceFunc  func(ctx context.Context, since time.Time) (int64, error)
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	msg.ID = 1
	return nil
}

func (m *mockMessageRepository) List(ctx context.Context, offset, limit int) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, offset, limit)
	}
	return []*model.Message{}, nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id uint) (*model.Message, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Message{ID: id}, nil
}

func (m *mockMessageRepository) MarkRead(ctx context.Context, id uint) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil
}

func (m *mockMessageRepository) Delete(ctx context.Context, id uint) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockMessageRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockMessageRepository) CountUnread(ctx context.Context) (int64, error) {
	if m.countUnreadFunc != nil {
		return m.countUnreadFunc(ctx)
	}
	return 0, nil
}

func (m *mockMessageRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	if m.countSinceFunc != nil {
		return m.countSinceFunc(ctx, since)
	}
	return 0, nil
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	msgs []*model.Message
}

func (r *recordingEnqueuer) Enqueue(msg *model.Message) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

type notifierFunc func(ctx context.Context, msg *model.Message) error

func (f notifierFunc) NotifyCreated(ctx context.Context, msg *model.Message) error { return f(ctx, msg) }
