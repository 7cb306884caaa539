package consumer

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/Stephan2025u/FMS-NEW/models"
	"github.com/Stephan2025u/FMS-NEW/utils"
	"github.com/segmentio/kafka-go"
)

type assessmentEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type deletedEvent struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
}

// AssessmentConsumer читает топик assessment_events и поддерживает
// поисковые индексы Elasticsearch и кэш профилей в Redis.
type AssessmentConsumer struct {
	cache    utils.RedisClient
	es       utils.ElasticsearchClient
	reader   *kafka.Reader
	shutdown chan struct{}
}

func NewAssessmentConsumer(cache utils.RedisClient, es utils.ElasticsearchClient) *AssessmentConsumer {
	return &AssessmentConsumer{
		cache: cache,
		es:    es,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{os.Getenv("KAFKA_BROKER")},
			Topic:   utils.AssessmentEventsTopic,
			GroupID: "fms-assessment-group",
			MaxWait: 10 * time.Second,
		}),
		shutdown: make(chan struct{}),
	}
}

func (c *AssessmentConsumer) Start(ctx context.Context) {
	log.Println("Starting Kafka consumer...")

	go func() {
		for {
			select {
			case <-c.shutdown:
				return
			default:
				c.processMessages(ctx)
			}
		}
	}()
}

func (c *AssessmentConsumer) Stop() {
	close(c.shutdown)
	if err := c.reader.Close(); err != nil {
		log.Printf("Error closing Kafka reader: %v", err)
	}
}

func (c *AssessmentConsumer) processMessages(ctx context.Context) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if err == context.Canceled {
			return
		}
		log.Printf("Kafka read error: %v (will retry)", err)
		time.Sleep(5 * time.Second)
		return
	}

	var event assessmentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Failed to unmarshal Kafka message: %v", err)
		return
	}

	switch event.Event {
	case "client_created", "client_updated":
		c.handleClientUpserted(ctx, event.Data)
	case "client_deleted":
		c.handleClientDeleted(ctx, event.Data)
	case "test_result_created":
		c.handleTestResultCreated(ctx, event.Data)
	case "test_result_deleted":
		c.handleTestResultDeleted(ctx, event.Data)
	default:
		log.Printf("Unknown event type: %s", event.Event)
	}
}

func (c *AssessmentConsumer) handleClientUpserted(ctx context.Context, data json.RawMessage) {
	var client models.Client
	if err := json.Unmarshal(data, &client); err != nil {
		log.Printf("Failed to unmarshal client event: %v", err)
		return
	}

	if c.cache != nil {
		if err := c.cache.SetToCache(ctx, utils.ClientCacheKey(client.ID), string(data), 24*time.Hour); err != nil {
			log.Printf("Failed to cache client %s: %v", client.ID, err)
		}
	}

	if c.es != nil {
		if err := c.es.IndexDocument(ctx, utils.ClientsIndex, client.ID, client); err != nil {
			log.Printf("Failed to index client %s in Elasticsearch: %v", client.ID, err)
		}
	}

	log.Printf("Processed client event for client ID %s", client.ID)
}

func (c *AssessmentConsumer) handleClientDeleted(ctx context.Context, data json.RawMessage) {
	var event deletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("Failed to unmarshal client_deleted event: %v", err)
		return
	}

	if c.cache != nil {
		if err := c.cache.DeleteFromCache(ctx, utils.ClientCacheKey(event.ID)); err != nil {
			log.Printf("Failed to delete client %s from cache: %v", event.ID, err)
		}
	}

	if c.es != nil {
		if err := c.es.DeleteDocument(ctx, utils.ClientsIndex, event.ID); err != nil {
			log.Printf("Failed to delete client %s from Elasticsearch: %v", event.ID, err)
		}
	}

	log.Printf("Processed client_deleted event for client ID %s", event.ID)
}

func (c *AssessmentConsumer) handleTestResultCreated(ctx context.Context, data json.RawMessage) {
	var result models.TestResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Printf("Failed to unmarshal test_result_created event: %v", err)
		return
	}

	if c.es != nil {
		if err := c.es.IndexDocument(ctx, utils.TestResultsIndex, result.ID, result); err != nil {
			log.Printf("Failed to index test result %s in Elasticsearch: %v", result.ID, err)
		}
	}

	// Статистика клиента изменилась, кэшированный профиль больше не актуален.
	if c.cache != nil && result.ClientID != "" {
		if err := c.cache.DeleteFromCache(ctx, utils.ClientCacheKey(result.ClientID)); err != nil {
			log.Printf("Failed to invalidate cache for client %s: %v", result.ClientID, err)
		}
	}

	log.Printf("Processed test_result_created event for result ID %s", result.ID)
}

func (c *AssessmentConsumer) handleTestResultDeleted(ctx context.Context, data json.RawMessage) {
	var event deletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("Failed to unmarshal test_result_deleted event: %v", err)
		return
	}

	if c.es != nil {
		if err := c.es.DeleteDocument(ctx, utils.TestResultsIndex, event.ID); err != nil {
			log.Printf("Failed to delete test result %s from Elasticsearch: %v", event.ID, err)
		}
	}

	if c.cache != nil && event.ClientID != "" {
		if err := c.cache.DeleteFromCache(ctx, utils.ClientCacheKey(event.ClientID)); err != nil {
			log.Printf("Failed to invalidate cache for client %s: %v", event.ClientID, err)
		}
	}

	log.Printf("Processed test_result_deleted event for result ID %s", event.ID)
}
