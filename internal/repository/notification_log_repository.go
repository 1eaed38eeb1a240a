package repository

import (
	"database/sql"

	"github.com/adstation/campaign-backend/internal/model"
)

type NotificationLogRepositoryInterface interface {
	Create(l *model.NotificationLog) error
	ListByCampaign(campaignID int) ([]*model.NotificationLog, error)
}

type NotificationLogRepository struct {
	DB *sql.DB
}

func (r *NotificationLogRepository) Create(l *model.NotificationLog) error {
	query := `
		INSERT INTO notification_logs (event_type, message, campaign_id, post_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(query, l.EventType, l.Message, l.CampaignID, l.PostID).
		Scan(&l.ID, &l.CreatedAt)
}

func (r *NotificationLogRepository) ListByCampaign(campaignID int) ([]*model.NotificationLog, error) {
	query := `
		SELECT id, event_type, message, campaign_id, post_id, created_at
		FROM notification_logs WHERE campaign_id=$1 ORDER BY id DESC
	`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*model.NotificationLog{}
	for rows.Next() {
		l := &model.NotificationLog{}
		if err := rows.Scan(&l.ID, &l.EventType, &l.Message, &l.CampaignID, &l.PostID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

var _ NotificationLogRepositoryInterface = (*NotificationLogRepository)(nil)
