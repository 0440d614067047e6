package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
	"docuchat-backend/models"
)

// SweeperService runs periodic housekeeping: documents stuck in the
// processing state are marked failed, and chat transcripts idle past the
// retention window are removed.
type SweeperService struct {
	scheduler    *gocron.Scheduler
	documentsCol *mongo.Collection
	chatsCol     *mongo.Collection
	interval     time.Duration
}

const (
	// A document still processing after this long is assumed lost to a
	// crashed worker.
	stuckProcessingAge = 1 * time.Hour

	// Transcripts idle longer than this are deleted.
	chatRetention = 30 * 24 * time.Hour
)

func NewSweeperService(cfg *config.Config, documentsCol, chatsCol *mongo.Collection) *SweeperService {
	return &SweeperService{
		scheduler:    gocron.NewScheduler(time.UTC),
		documentsCol: documentsCol,
		chatsCol:     chatsCol,
		interval:     time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
	}
}

func (s *SweeperService) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.sweep)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	logger.Info("Sweeper started", "interval", s.interval.String())
	return nil
}

func (s *SweeperService) Stop() {
	s.scheduler.Stop()
}

func (s *SweeperService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := s.documentsCol.UpdateMany(ctx,
		bson.M{
			"status":      models.StatusProcessing,
			"uploaded_at": bson.M{"$lt": time.Now().Add(-stuckProcessingAge)},
		},
		bson.M{"$set": bson.M{
			"status":        models.StatusFailed,
			"error_message": "Processing timed out",
		}},
	)
	if err != nil {
		logger.Error("Sweep of stuck documents failed", "error", err)
	} else if res.ModifiedCount > 0 {
		logger.Warn("Marked stuck documents as failed", "count", res.ModifiedCount)
	}

	del, err := s.chatsCol.DeleteMany(ctx,
		bson.M{"updated_at": bson.M{"$lt": time.Now().Add(-chatRetention)}},
	)
	if err != nil {
		logger.Error("Sweep of stale chats failed", "error", err)
	} else if del.DeletedCount > 0 {
		logger.Info("Removed stale chat transcripts", "count", del.DeletedCount)
	}
}
