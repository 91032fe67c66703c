package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/segmentio/kafka-go"

	"github.com/vidyamithra/backend/adapters/ai"
	"github.com/vidyamithra/backend/adapters/event"
	"github.com/vidyamithra/backend/adapters/persistence"
	opportunityUC "github.com/vidyamithra/backend/internal/application/usecase/opportunity"
	progressUC "github.com/vidyamithra/backend/internal/application/usecase/progress"
	"github.com/vidyamithra/backend/internal/config"
	"github.com/vidyamithra/backend/internal/domain/opportunity"
	"github.com/vidyamithra/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting VidyaMithra worker")

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	// Repositories
	roadmapRepo := persistence.NewPostgresRoadmapRepo(dbPool)
	quizRepo := persistence.NewPostgresQuizRepo(dbPool)
	interviewRepo := persistence.NewPostgresInterviewRepo(dbPool)
	opportunityRepo := persistence.NewPostgresOpportunityRepo(dbPool)
	progressRepo := persistence.NewPostgresProgressRepo(dbPool)

	aiGateway := ai.NewGateway(cfg, appLogger)

	// Use Cases
	progressUseCase := progressUC.NewProgressUseCase(progressRepo, roadmapRepo, quizRepo, interviewRepo, appLogger)
	opportunityUseCase := opportunityUC.NewOpportunityUseCase(aiGateway, opportunityRepo, appLogger)

	// Scheduled jobs: expire stale opportunities nightly, refresh trending
	// curated opportunities twice a day.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 0 * * *", func() {
		if _, err := opportunityUseCase.ExpireStale(context.Background()); err != nil {
			log.Printf("ERROR: opportunity expiry sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("FATAL: cannot schedule expiry job: %v", err)
	}
	if _, err := scheduler.AddFunc("0 */12 * * *", func() {
		_, err := opportunityUseCase.Generate(context.Background(), opportunityUC.GenerateInput{
			TargetRole: "Software Engineer",
			Types:      []opportunity.Type{opportunity.TypeJob, opportunity.TypeInternship, opportunity.TypeCourse},
		})
		if err != nil {
			log.Printf("ERROR: trending opportunity refresh failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("FATAL: cannot schedule refresh job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Kafka consumer: recompute progress snapshots after graded quizzes.
	quizConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicQuizEvents,
		GroupID:  "progress-snapshot-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer quizConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicQuizEvents)

	ctx := context.Background()
	for {
		msg, err := quizConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var payload event.QuizEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(quizConsumer, msg)
			continue
		}

		log.Printf("Processing event [%s] for user %s", payload.EventType, payload.UserID)

		if _, err := progressUseCase.ComputeSnapshot(ctx, payload.UserID, nil); err != nil {
			log.Printf("ERROR: Failed to snapshot progress for user %s: %v", payload.UserID, err)
			continue
		}

		commitMessage(quizConsumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
