// internal/model/purchase_request.go
package model

import "time"

type PurchaseRequest struct {
	ID          int        `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Amount      float64    `db:"amount" json:"amount"`
	Company     string     `db:"company" json:"company,omitempty"`
	Status      string     `db:"status" json:"status"`
	RequesterID int        `db:"requester_id" json:"requester_id"`
	CampaignID  *int       `db:"campaign_id" json:"campaign_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
