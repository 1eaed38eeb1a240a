// internal/model/campaign.go
package model

import "time"

type Campaign struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Description  string     `db:"description" json:"description"`
	Company      string     `db:"company" json:"company"`
	CreatorID    int        `db:"creator_id" json:"creator_id"`
	StaffID      *int       `db:"staff_id" json:"staff_id,omitempty"`
	ClientUserID *int       `db:"client_user_id" json:"client_user_id,omitempty"`
	Budget       float64    `db:"budget" json:"budget"`
	Status       string     `db:"status" json:"status"`
	StartDate    *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
