package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/events"
)

// NotificationService turns domain events into outbound mail. Delivery is
// fire-and-forget: a failure here is logged and never becomes a domain
// error.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleActivationRequested)
	n.dispatcher.Subscribe(events.EventActivationRequested, n.handleActivationRequested)
	n.dispatcher.Subscribe(events.EventUserActivated, n.handleUserActivated)
	n.dispatcher.Subscribe(events.EventUserUnsubscribed, n.handleUserUnsubscribed)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
	n.dispatcher.Subscribe(events.EventReservationCreated, n.handleReservationCreated)
}

func (n *NotificationService) handleActivationRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ActivationRequestedPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(payload.Email, "Activate your account",
		fmt.Sprintf("%s/%s", n.cfg.ActivationBase, payload.UserID))
	return nil
}

func (n *NotificationService) handleUserActivated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(payload.Email, "Your account is now active",
		fmt.Sprintf("Welcome %s %s", payload.FirstName, payload.LastName))
	return nil
}

func (n *NotificationService) handleUserUnsubscribed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(payload.Email, "Unsubscribe confirmation",
		fmt.Sprintf("Goodbye %s %s, your account has been deactivated", payload.FirstName, payload.LastName))
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(payload.Email, "Your password was changed",
		fmt.Sprintf("Hello %s %s, your password was updated", payload.FirstName, payload.LastName))
	return nil
}

func (n *NotificationService) handleReservationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReservationPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(payload.Email, "Reservation confirmed",
		fmt.Sprintf("Hello %s %s, your reservation for %q is confirmed", payload.FirstName, payload.LastName, payload.BookTitle))
	return nil
}

func (n *NotificationService) sendEmailStub(to, subject, body string) {
	if to == "" {
		return
	}
	n.logger.Info("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
}
