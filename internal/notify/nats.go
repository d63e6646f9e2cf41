package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/pkg/logger"
)

// MessageCreatedEvent 新留言事件体，不含 IP 与 UA
type MessageCreatedEvent struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

const previewLen = 140

func NewMessageCreatedEvent(msg *model.Message) MessageCreatedEvent {
	preview := []rune(msg.Message)
	if len(preview) > previewLen {
		preview = append(preview[:previewLen], '…')
	}
	return MessageCreatedEvent{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Preview:   string(preview),
		CreatedAt: msg.CreatedAt,
	}
}

type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Publisher 把新留言事件发布到 NATS
type Publisher struct {
	conn    conn
	subject string
}

// NewPublisher 连接 NATS，断线自动重连
func NewPublisher(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("contact-desk"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	logger.Info("NATS publisher initialized", zap.String("url", url), zap.String("subject", subject))
	return &Publisher{conn: nc, subject: subject}, nil
}

// NotifyCreated 发布并在 ctx 截止前 flush
func (p *Publisher) NotifyCreated(ctx context.Context, msg *model.Message) error {
	data, err := json.Marshal(NewMessageCreatedEvent(msg))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", p.subject, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.conn.Close()
	return nil
}
