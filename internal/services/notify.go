package services

import (
	"context"
	"fmt"

	"github.com/campushub/backend/internal/model"
	"github.com/campushub/backend/internal/store"
)

// NotifyService enqueues ad-hoc emails. Delivery is asynchronous; the
// caller only learns that the message was queued.
type NotifyService struct {
	store store.Store
}

func NewNotifyService(s store.Store) *NotifyService { return &NotifyService{store: s} }

// EnqueueEmail queues a message for the notify worker.
func (s *NotifyService) EnqueueEmail(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" || subject == "" || body == "" {
		return fmt.Errorf("%w: email, subject and body are required", model.ErrValidation)
	}
	return s.store.Outbox().Enqueue(ctx, &model.Notification{
		Recipient: recipient,
		Subject:   subject,
		HTMLBody:  body,
	})
}
