// internal/model/order_request.go
package model

import "time"

type OrderRequest struct {
	ID         int        `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	Status     string     `db:"status" json:"status"`
	Company    string     `db:"company" json:"company,omitempty"`
	CostPrice  *int       `db:"cost_price" json:"cost_price,omitempty"`
	PostID     int        `db:"post_id" json:"post_id"`
	UserID     int        `db:"user_id" json:"user_id"`
	CampaignID int        `db:"campaign_id" json:"campaign_id"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
