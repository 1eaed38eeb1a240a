// internal/service/notification_service.go
package service

import (
	"log"

	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/queue"
	"github.com/adstation/campaign-backend/internal/repository"
)

// CampaignEventsTopic is consumed by cmd/worker, which records notification
// logs. Delivery to external channels happens beyond that boundary.
const CampaignEventsTopic = "campaign_events"

// CampaignEvent is the payload published for campaign lifecycle changes.
type CampaignEvent struct {
	EventType  string `json:"event_type"`
	CampaignID int    `json:"campaign_id"`
	ActorID    int    `json:"actor_id"`
	Message    string `json:"message"`
}

type NotificationService struct {
	Queue queue.Queue
}

// PublishCampaignEvent is best-effort: a broker outage must not fail the
// request that triggered the event.
func (s *NotificationService) PublishCampaignEvent(event CampaignEvent) {
	if s == nil || s.Queue == nil {
		return
	}
	if err := s.Queue.Publish(CampaignEventsTopic, event); err != nil {
		log.Println("failed to publish campaign event:", err)
	}
}

// StartNotificationRecorder subscribes an in-process handler that records
// campaign events as notification log rows. Used when no broker is available
// and cmd/worker is not running; the handler does the same work the worker
// does. A non-nil handler error triggers the queue's retry.
func StartNotificationRecorder(q queue.Queue, logs repository.NotificationLogRepositoryInterface) {
	err := q.Subscribe(CampaignEventsTopic, func(payload any) error {
		event, ok := payload.(CampaignEvent)
		if !ok {
			log.Printf("unexpected campaign event payload: %T", payload)
			return nil
		}
		return logs.Create(&model.NotificationLog{
			EventType:  event.EventType,
			Message:    event.Message,
			CampaignID: event.CampaignID,
		})
	})
	if err != nil {
		log.Println("failed to subscribe notification recorder:", err)
	}
}
