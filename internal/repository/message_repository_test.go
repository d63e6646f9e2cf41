package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/contact-desk/internal/model"
)

// setupTestDB 打开内存库；now 为 nil 时使用真实 UTC 时间
func setupTestDB(t testing.TB, now func() time.Time) *gorm.DB {
	t.Helper()
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: now,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: 库按连接隔离
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Message{}))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newMessage(i int) *model.Message {
	return &model.Message{
		Name:      fmt.Sprintf("Sender %02d", i),
		Email:     fmt.Sprintf("sender%02d@example.com", i),
		Message:   "Hello, I have a question about pricing.",
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	}
}

func TestMessageRepository_CreateAndGet(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t, nil))
	ctx := context.Background()

	msg := newMessage(1)
	msg.ReadStatus = true
	require.NoError(t, repo.Create(ctx, msg))
	require.NotZero(t, msg.ID)

	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sender 01", got.Name)
	assert.Equal(t, "203.0.113.7", got.IPAddress)
	assert.False(t, got.ReadStatus)
	assert.WithinDuration(t, time.Now().UTC(), got.CreatedAt, time.Minute)

	_, err = repo.GetByID(ctx, msg.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageRepository_ListOrderAndPaging(t *testing.T) {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	db := setupTestDB(t, func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})
	repo := NewMessageRepository(db)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		require.NoError(t, repo.Create(ctx, newMessage(i)))
	}

	first, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "Sender 25", first[0].Name)
	assert.Equal(t, "Sender 16", first[9].Name)

	last, err := repo.List(ctx, 20, 10)
	require.NoError(t, err)
	require.Len(t, last, 5)
	assert.Equal(t, "Sender 01", last[4].Name)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
}

func TestMessageRepository_ListTieBreaksOnID(t *testing.T) {
	db := setupTestDB(t, nil)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	same := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		m := newMessage(i)
		m.CreatedAt = same
		require.NoError(t, db.Create(m).Error)
	}

	list, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Greater(t, list[0].ID, list[1].ID)
	assert.Greater(t, list[1].ID, list[2].ID)
}

func TestMessageRepository_MarkRead(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t, nil))
	ctx := context.Background()

	msg := newMessage(1)
	require.NoError(t, repo.Create(ctx, msg))

	require.NoError(t, repo.MarkRead(ctx, msg.ID))
	require.NoError(t, repo.MarkRead(ctx, msg.ID), "second mark is a no-op")

	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.ReadStatus)

	unread, err := repo.CountUnread(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, repo.MarkRead(ctx, 9999), ErrNotFound)
}

func TestMessageRepository_Delete(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t, nil))
	ctx := context.Background()

	msg := newMessage(1)
	require.NoError(t, repo.Create(ctx, msg))

	require.NoError(t, repo.Delete(ctx, msg.ID))
	assert.ErrorIs(t, repo.Delete(ctx, msg.ID), ErrNotFound)
	assert.ErrorIs(t, repo.MarkRead(ctx, msg.ID), ErrNotFound)
	_, err := repo.GetByID(ctx, msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageRepository_CountSince(t *testing.T) {
	db := setupTestDB(t, nil)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, age := range []time.Duration{0, 26 * time.Hour, 10 * 24 * time.Hour} {
		m := newMessage(i)
		m.CreatedAt = now.Add(-age)
		require.NoError(t, db.Create(m).Error)
	}

	n, err := repo.CountSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.CountSince(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
