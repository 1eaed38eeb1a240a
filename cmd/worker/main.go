// cmd/worker/main.go
package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/adstation/campaign-backend/internal/config"
	"github.com/adstation/campaign-backend/internal/db"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/repository"
	"github.com/adstation/campaign-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	db.Init(cfg)

	logRepo := &repository.NotificationLogRepository{DB: db.DB}

	// Connect to RabbitMQ
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		service.CampaignEventsTopic, // name
		true,                        // durable
		false,                       // delete when unused
		false,                       // exclusive
		false,                       // no-wait
		nil,                         // arguments
	)
	if err != nil {
		log.Fatal("failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var event service.CampaignEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Println("invalid event:", err)
				d.Ack(false)
				continue
			}

			if err := recordEvent(logRepo, event); err != nil {
				log.Println("failed to record notification:", err)
				// A plain Nack-requeue would come back with the same header
				// forever; republishing is what advances the counter.
				attempt := retryCount(d.Headers) + 1
				if attempt <= maxEventRetries {
					republish(ch, q.Name, d.Body, attempt)
				} else {
					log.Printf("event dropped after %d attempts: %s", maxEventRetries, d.Body)
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("worker running, waiting for campaign events...")
	<-forever
}

const maxEventRetries = 3

// retryCount reads the x-retry-count header, tolerating the integer widths
// amqp decodes numbers into.
func retryCount(headers amqp.Table) int {
	switch v := headers["x-retry-count"].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

func republish(ch *amqp.Channel, queueName string, body []byte, attempt int) {
	err := ch.Publish("", queueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Headers:     amqp.Table{"x-retry-count": int32(attempt)},
		Body:        body,
	})
	if err != nil {
		log.Println("failed to requeue event:", err)
	}
}

// recordEvent writes the notification log row. Pushing the message out to
// Telegram or any other channel is a separate delivery concern downstream of
// these rows.
func recordEvent(repo repository.NotificationLogRepositoryInterface, event service.CampaignEvent) error {
	return repo.Create(&model.NotificationLog{
		EventType:  event.EventType,
		Message:    event.Message,
		CampaignID: event.CampaignID,
	})
}
