// internal/model/notification_log.go
package model

import "time"

type NotificationLog struct {
	ID         int       `db:"id" json:"id"`
	EventType  string    `db:"event_type" json:"event_type"`
	Message    string    `db:"message" json:"message"`
	CampaignID int       `db:"campaign_id" json:"campaign_id"`
	PostID     *int      `db:"post_id" json:"post_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
