package service

import (
	"context"

	"github.com/d60-Lab/contact-desk/internal/challenge"
	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/internal/repository"
	"github.com/d60-Lab/contact-desk/internal/validation"
)

// Origin 提交来源，尽力而为
type Origin struct {
	IP        string
	UserAgent string
}

// Enqueuer 新留言异步通知入口
type Enqueuer interface {
	Enqueue(msg *model.Message)
}

// ContactService 公开联系表单服务
type ContactService interface {
	Challenge() challenge.Challenge
	Submit(ctx context.Context, sub validation.Submission, origin Origin) (*model.Message, error)
}

type contactService struct {
	repo      repository.MessageRepository
	generator *challenge.Generator
	validator *validation.Validator
	notifier  Enqueuer
}

// NewContactService notifier 可为 nil
func NewContactService(repo repository.MessageRepository, generator *challenge.Generator, validator *validation.Validator, notifier Enqueuer) ContactService {
	return &contactService{repo: repo, generator: generator, validator: validator, notifier: notifier}
}

func (s *contactService) Challenge() challenge.Challenge {
	return s.generator.Generate()
}

// Submit 校验、比对验证码、落库，成功后投递通知。
// 返回 *validation.ValidationError、ErrChallengeFailed 或 ErrStorage。
func (s *contactService) Submit(ctx context.Context, sub validation.Submission, origin Origin) (*model.Message, error) {
	accepted, err := s.validator.Check(sub)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		Name:      accepted.Name,
		Email:     accepted.Email,
		Message:   accepted.Message,
		IPAddress: origin.IP,
		UserAgent: origin.UserAgent,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, storageErr("insert message", err)
	}

	if s.notifier != nil {
		s.notifier.Enqueue(msg)
	}
	return msg, nil
}
