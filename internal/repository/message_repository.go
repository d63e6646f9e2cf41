package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/contact-desk/internal/model"
)

// MessageRepository 留言仓储
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	List(ctx context.Context, offset, limit int) ([]*model.Message, error)
	GetByID(ctx context.Context, id uint) (*model.Message, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

// Create 写入新留言，read_status 固定为未读
func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	msg.ID = 0
	msg.ReadStatus = false
	msg.CreatedAt = time.Time{}
	return r.db.WithContext(ctx).Create(msg).Error
}

// List 按 created_at 倒序，id 倒序兜底
func (r *messageRepository) List(ctx context.Context, offset, limit int) ([]*model.Message, error) {
	res := make([]*model.Message, 0, limit)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*model.Message, error) {
	var msg model.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead 标记已读。已读记录重复标记视为成功；id 不存在返回 ErrNotFound。
func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	// 不带 read_status 条件，已读行也会命中，RowsAffected 才能区分“不存在”
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", id).
		Update("read_status", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).Count(&cnt).Error
	return cnt, err
}

func (r *messageRepository) CountUnread(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).Where("read_status = ?", false).Count(&cnt).Error
	return cnt, err
}

// CountSince 统计 created_at >= since 的留言数
func (r *messageRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).Where("created_at >= ?", since.UTC()).Count(&cnt).Error
	return cnt, err
}
