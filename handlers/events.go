package handlers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Stephan2025u/FMS-NEW/utils"
)

// Envelope события мутации; его же разбирает consumer.
type AssessmentEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// publishEvent отправляет событие в Kafka в режиме fire-and-forget.
// Вызывается из горутины, ошибки только логируются.
func publishEvent(producer utils.KafkaProducer, eventType string, data interface{}) {
	if producer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	jsonData, err := json.Marshal(AssessmentEvent{Event: eventType, Data: data})
	if err != nil {
		log.Printf("Failed to marshal Kafka event: %v", err)
		return
	}

	if err := producer.SendMessage(ctx, utils.AssessmentEventsTopic, nil, jsonData); err != nil {
		log.Printf("Failed to send Kafka message: %v", err)
	}
}
