package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

const (
	streamName             = "LIFEOS"
	activitySubject        = "lifeos.activity"
	statsSubject           = "lifeos.stats"
	notificationSubjectFmt = "lifeos.notification.%s"
	notificationWildcard   = "lifeos.notification.*"
	streamMaxAge           = 7 * 24 * time.Hour
	operationTimeout       = 30 * time.Second
)

// EventPublisher publishes store events to JetStream. It implements
// store.EventSink; publish failures are logged and dropped.
type EventPublisher struct {
	js     nats.JetStreamContext
	logger *zap.Logger
}

// NewEventPublisher creates the LIFEOS stream if needed and returns a publisher
func NewEventPublisher(js nats.JetStreamContext, logger *zap.Logger) (*EventPublisher, error) {
	p := &EventPublisher{
		js:     js,
		logger: logger.Named("event-publisher"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := p.setupStream(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup stream: %w", err)
	}
	return p, nil
}

func (p *EventPublisher) setupStream(ctx context.Context) error {
	_, err := p.js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{activitySubject, statsSubject, notificationWildcard},
		Storage:  nats.FileStorage,
		MaxAge:   streamMaxAge,
	}, nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			p.logger.Info("Stream already exists", zap.String("stream", streamName))
			return nil
		}
		return err
	}

	p.logger.Info("Stream created successfully", zap.String("stream", streamName))
	return nil
}

// NotificationSubject returns the subject a notification of type t is published on
func NotificationSubject(t model.NotificationType) string {
	return fmt.Sprintf(notificationSubjectFmt, t)
}

// ActivityLogged implements store.EventSink
func (p *EventPublisher) ActivityLogged(entry model.ActivityLog) {
	if err := p.publish(activitySubject, entry); err != nil {
		p.logger.Error("Failed to publish activity",
			zap.String("activity_id", entry.ID),
			zap.String("action", entry.Action),
			zap.Error(err))
	}
}

// NotificationRaised implements store.EventSink
func (p *EventPublisher) NotificationRaised(n model.Notification) {
	if err := p.publish(NotificationSubject(n.Type), n); err != nil {
		p.logger.Error("Failed to publish notification",
			zap.String("notification_id", n.ID),
			zap.Error(err))
	}
}

// StatsCollected implements monitor.StatsPublisher
func (p *EventPublisher) StatsCollected(stats model.HouseholdStats) {
	if err := p.publish(statsSubject, stats); err != nil {
		p.logger.Error("Failed to publish stats", zap.Error(err))
	}
}

func (p *EventPublisher) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := p.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug("Event published", zap.String("subject", subject))
	return nil
}

// SubscribeNotifications delivers every published notification to handler
// until ctx is done.
func (p *EventPublisher) SubscribeNotifications(ctx context.Context, handler func(model.Notification)) error {
	return subscribe(ctx, p, notificationWildcard, handler)
}

// SubscribeActivity delivers every published activity entry to handler
// until ctx is done.
func (p *EventPublisher) SubscribeActivity(ctx context.Context, handler func(model.ActivityLog)) error {
	return subscribe(ctx, p, activitySubject, handler)
}

// SubscribeStats delivers every published stats sample to handler until ctx
// is done.
func (p *EventPublisher) SubscribeStats(ctx context.Context, handler func(model.HouseholdStats)) error {
	return subscribe(ctx, p, statsSubject, handler)
}

func subscribe[T any](ctx context.Context, p *EventPublisher, subject string, handler func(T)) error {
	sub, err := p.js.Subscribe(subject, func(msg *nats.Msg) {
		var event T
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			p.logger.Error("Failed to unmarshal event",
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}

		handler(event)
		msg.Ack()
	}, nats.DeliverNew())
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
	}()

	return nil
}
