package main

import (
	"sync"
	"testing"

	"github.com/streadway/amqp"

	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/service"
)

// MockNotificationLogRepo stores rows in memory
type MockNotificationLogRepo struct {
	logs []*model.NotificationLog
	mu   sync.Mutex
}

func (m *MockNotificationLogRepo) Create(l *model.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = len(m.logs) + 1
	m.logs = append(m.logs, l)
	return nil
}

func (m *MockNotificationLogRepo) ListByCampaign(campaignID int) ([]*model.NotificationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.NotificationLog{}
	for _, l := range m.logs {
		if l.CampaignID == campaignID {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestRecordEvent(t *testing.T) {
	repo := &MockNotificationLogRepo{}

	err := recordEvent(repo, service.CampaignEvent{
		EventType:  "campaign_deleted",
		CampaignID: 7,
		ActorID:    1,
		Message:    `campaign "Launch" deleted`,
	})
	if err != nil {
		t.Fatalf("recordEvent: %v", err)
	}

	logs, _ := repo.ListByCampaign(7)
	if len(logs) != 1 {
		t.Fatalf("expected one log row, got %d", len(logs))
	}
	if logs[0].EventType != "campaign_deleted" {
		t.Errorf("event_type = %s", logs[0].EventType)
	}
}

func TestRetryCountHeader(t *testing.T) {
	cases := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{"missing", amqp.Table{}, 0},
		{"nil table", nil, 0},
		{"int", amqp.Table{"x-retry-count": 2}, 2},
		{"int32", amqp.Table{"x-retry-count": int32(1)}, 1},
		{"int64", amqp.Table{"x-retry-count": int64(3)}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryCount(tc.headers); got != tc.want {
				t.Errorf("retryCount = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRetryAttemptsAreFinite(t *testing.T) {
	// Each republish carries the incremented counter, so a persistently
	// failing event walks 1, 2, 3 and is then dropped.
	headers := amqp.Table{}
	attempts := 0
	for {
		attempt := retryCount(headers) + 1
		if attempt > maxEventRetries {
			break
		}
		attempts++
		headers = amqp.Table{"x-retry-count": int32(attempt)}
	}
	if attempts != maxEventRetries {
		t.Errorf("attempts = %d, want %d", attempts, maxEventRetries)
	}
}
