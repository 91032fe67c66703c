package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/vidyamithra/backend/internal/config"
)

const (
	TopicQuizEvents    = "quiz.events"
	TopicRoadmapEvents = "roadmap.events"
)

const (
	EventQuizGraded       = "quiz.graded"
	EventRoadmapGenerated = "roadmap.generated"
)

// QuizEventPayload notifies the worker that an attempt was graded so the
// user's progress snapshot can be recomputed off the request path.
type QuizEventPayload struct {
	EventType string    `json:"event_type"`
	UserID    uuid.UUID `json:"user_id"`
	SkillID   string    `json:"skill_id"`
	Level     string    `json:"level"`
	Score     float64   `json:"score"`
	Passed    bool      `json:"passed"`
	Timestamp time.Time `json:"timestamp"`
}

type RoadmapEventPayload struct {
	EventType  string    `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	RoadmapID  uuid.UUID `json:"roadmap_id"`
	TargetRole string    `json:"target_role"`
	Timestamp  time.Time `json:"timestamp"`
}

type KafkaProducerClient struct {
	QuizEventsWriter    *kafka.Writer
	RoadmapEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	quizWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicQuizEvents,
		Balancer: &kafka.LeastBytes{},
	}

	roadmapWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicRoadmapEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		QuizEventsWriter:    quizWriter,
		RoadmapEventsWriter: roadmapWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishQuizGraded(ctx context.Context, payload QuizEventPayload) error {
	payload.EventType = EventQuizGraded
	return publish(ctx, c.QuizEventsWriter, payload.UserID.String(), payload)
}

func (c *KafkaProducerClient) PublishRoadmapGenerated(ctx context.Context, payload RoadmapEventPayload) error {
	payload.EventType = EventRoadmapGenerated
	return publish(ctx, c.RoadmapEventsWriter, payload.UserID.String(), payload)
}

func publish(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.QuizEventsWriter != nil {
		c.QuizEventsWriter.Close()
	}
	if c.RoadmapEventsWriter != nil {
		c.RoadmapEventsWriter.Close()
	}
}
