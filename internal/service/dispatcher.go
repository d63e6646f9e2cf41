package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/pkg/logger"
)

// Notifier 新留言通知的下游（NATS 等）
type Notifier interface {
	NotifyCreated(ctx context.Context, msg *model.Message) error
}

type notifyJob struct {
	msg   *model.Message
	enqAt time.Time
}

// NotificationDispatcher 本地异步通知队列：队列满时丢弃并告警，不阻塞请求
type NotificationDispatcher struct {
	notifier  Notifier
	ch        chan notifyJob
	timeout   time.Duration
	metricsCh chan time.Duration
}

func NewNotificationDispatcher(notifier Notifier, queueSize int) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &NotificationDispatcher{
		notifier:  notifier,
		ch:        make(chan notifyJob, queueSize),
		timeout:   5 * time.Second,
		metricsCh: make(chan time.Duration, 1024),
	}
}

// Start 启动 workers 个消费者，返回停止函数；停止时在 ctx 截止前尽量排空队列
func (d *NotificationDispatcher) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-d.ch:
					d.deliver(job)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		wg.Wait()
		for {
			select {
			case job := <-d.ch:
				d.deliver(job)
			case <-ctx.Done():
				if n := len(d.ch); n > 0 {
					logger.Warn("notification queue not drained", zap.Int("pending", n))
				}
				return ctx.Err()
			default:
				return nil
			}
		}
	}
}

func (d *NotificationDispatcher) deliver(job notifyJob) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.notifier.NotifyCreated(ctx, job.msg); err != nil {
		logger.Warn("notify new message failed", zap.Uint("id", job.msg.ID), zap.Error(err))
		return
	}
	select {
	case d.metricsCh <- time.Since(job.enqAt):
	default:
	}
}

// Enqueue 非阻塞投递
func (d *NotificationDispatcher) Enqueue(msg *model.Message) {
	select {
	case d.ch <- notifyJob{msg: msg, enqAt: time.Now()}:
	default:
		logger.Warn("notification queue full, drop", zap.Uint("id", msg.ID))
	}
}

// Metrics 返回通知送达耗时的只读通道（每送达一条发送一次 duration）
func (d *NotificationDispatcher) Metrics() <-chan time.Duration { return d.metricsCh }

// QueueLen 返回当前队列长度（采样值）
func (d *NotificationDispatcher) QueueLen() int { return len(d.ch) }
