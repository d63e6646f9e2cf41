package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/contact-desk/internal/model"
	"github.com/d60-Lab/contact-desk/pkg/database"
	"github.com/d60-Lab/contact-desk/pkg/logger"
)

const seedBatch = 500

func newSeedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo messages for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := database.InitDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()
			if err := database.AutoMigrate(db); err != nil {
				return err
			}

			start := time.Now()
			if err := seedMessages(db, count, time.Now().UTC()); err != nil {
				return err
			}
			logger.Info("seed complete", zap.Int("count", count), zap.Duration("took", time.Since(start)))
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d messages\n", count)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 50, "number of messages to insert")
	return cmd
}

// seedMessages 生成分布在最近两周内的留言，约三分之一已读
func seedMessages(db *gorm.DB, n int, now time.Time) error {
	msgs := make([]*model.Message, n)
	for i := range msgs {
		tag := uuid.New().String()[:8]
		msgs[i] = &model.Message{
			Name:       "Visitor " + tag,
			Email:      tag + "@example.com",
			Message:    fmt.Sprintf("Demo message #%d about our services (%s).", i+1, tag),
			IPAddress:  fmt.Sprintf("192.0.2.%d", i%254+1),
			UserAgent:  "contactdesk-seed",
			CreatedAt:  now.Add(-time.Duration(i) * 14 * 24 * time.Hour / time.Duration(n)),
			ReadStatus: i%3 == 0,
		}
	}
	return db.CreateInBatches(msgs, seedBatch).Error
}
