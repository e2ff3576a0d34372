package service

import (
	"context"
	"testing"
	"time"

	"homefinder-be/internal/model"
	"homefinder-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type memNotificationRepo struct {
	created []model.Notification
	failing bool
}

func (r *memNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if r.failing {
		return assert.AnError
	}
	r.created = append(r.created, *n)
	return nil
}

func (r *memNotificationRepo) GetByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return r.created, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, userId uuid.UUID) error {
	return nil
}

func (r *memNotificationRepo) MarkAllRead(ctx context.Context, userId uuid.UUID) error { return nil }

func (r *memNotificationRepo) CountUnread(ctx context.Context, userId uuid.UUID) (int64, error) {
	return int64(len(r.created)), nil
}

type recordingDelivery struct {
	sent []model.Notification
}

func (d *recordingDelivery) Send(userID uuid.UUID, n model.Notification) {
	d.sent = append(d.sent, n)
}

func (d *recordingDelivery) Broadcast(n model.Notification) {}

func TestHandleEventPersistsAndDelivers(t *testing.T) {
	repo := &memNotificationRepo{}
	delivery := &recordingDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	owner := uuid.New()
	err := svc.handleEvent(context.Background(), events.BaseEvent{
		Type: "events.LISTING_REJECTED",
		Data: map[string]interface{}{
			"user_id": owner.String(),
			"title":   "Family house with garden",
			"note":    "photos missing",
		},
		OccurredAt: time.Now(),
	})

	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Len(t, delivery.sent, 1)

	n := repo.created[0]
	assert.Equal(t, owner, n.UserID)
	assert.Equal(t, "LISTING_REJECTED", n.TypeCode)
	assert.Equal(t, `Your listing "Family house with garden" was rejected: photos missing`, n.Message)
	assert.False(t, n.IsRead)
}

func TestHandleEventUnknownTypeIsSkipped(t *testing.T) {
	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, nil, &recordingDelivery{}, nopLogger{})

	err := svc.handleEvent(context.Background(), events.BaseEvent{
		Type: "events.SOMETHING_ELSE",
		Data: map[string]interface{}{"user_id": uuid.New().String()},
	})

	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestHandleEventMissingUserIsDropped(t *testing.T) {
	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, nil, &recordingDelivery{}, nopLogger{})

	err := svc.handleEvent(context.Background(), events.BaseEvent{
		Type: "events.LISTING_PUBLISHED",
		Data: map[string]interface{}{"title": "No owner"},
	})

	// Dropping is deliberate: returning an error would make NATS redeliver
	// an event that can never be routed.
	assert.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestHandleEventRepoFailurePropagates(t *testing.T) {
	repo := &memNotificationRepo{failing: true}
	svc := NewNotificationService(repo, nil, &recordingDelivery{}, nopLogger{})

	err := svc.handleEvent(context.Background(), events.BaseEvent{
		Type: "events.APPOINTMENT_REQUESTED",
		Data: map[string]interface{}{
			"user_id":  uuid.New().String(),
			"title":    "Compact studio by the university",
			"visit_at": "2026-09-01 10:00",
		},
	})

	// The error must surface so JetStream retries delivery.
	assert.Error(t, err)
}
