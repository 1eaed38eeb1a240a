// internal/model/post.go
package model

import "time"

type Post struct {
	ID           int        `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	WorkType     string     `db:"work_type" json:"work_type"`
	TopicStatus  string     `db:"topic_status" json:"topic_status"`
	PublishedURL *string    `db:"published_url" json:"published_url,omitempty"`
	CampaignID   int        `db:"campaign_id" json:"campaign_id"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
