package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contact-desk/internal/model"
)

func TestNotificationDispatcher_Delivers(t *testing.T) {
	var mu sync.Mutex
	var got []uint
	d := NewNotificationDispatcher(notifierFunc(func(ctx context.Context, msg *model.Message) error {
		mu.Lock()
		got = append(got, msg.ID)
		mu.Unlock()
		return nil
	}), 16)
	stop := d.Start(2)

	for i := uint(1); i <= 5; i++ {
		d.Enqueue(&model.Message{ID: i})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 5
	}, time.Second, 10*time.Millisecond)

	select {
	case lat := <-d.Metrics():
		assert.GreaterOrEqual(t, lat, time.Duration(0))
	case <-time.After(time.Second):
		t.Fatal("no latency sample")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, stop(ctx))
}

func TestNotificationDispatcher_DropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	d := NewNotificationDispatcher(notifierFunc(func(ctx context.Context, msg *model.Message) error {
		<-block
		return nil
	}), 2)

	// 未启动消费者，队列容量 2
	for i := uint(1); i <= 5; i++ {
		d.Enqueue(&model.Message{ID: i})
	}
	assert.Equal(t, 2, d.QueueLen())
	close(block)
}

func TestNotificationDispatcher_StopDrainsQueue(t *testing.T) {
	var mu sync.Mutex
	delivered := 0
	d := NewNotificationDispatcher(notifierFunc(func(ctx context.Context, msg *model.Message) error {
		mu.Lock()
		delivered++
		mu.Unlock()
		if msg.ID%2 == 0 {
			return errors.New("nats: no responders")
		}
		return nil
	}), 8)

	for i := uint(1); i <= 4; i++ {
		d.Enqueue(&model.Message{ID: i})
	}
	stop := d.Start(1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, delivered)
	assert.Zero(t, d.QueueLen())
}
