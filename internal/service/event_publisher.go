package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event channels consumed by notification workers and the ward displays.
const (
	ChannelAppointments = "events:appointments"
	ChannelOtCases      = "events:ot_cases"
)

// Event names
const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
	EventOtCaseCreated        = "ot_case.created"
	EventOtCaseTransitioned   = "ot_case.transitioned"
)

// Event is one fire-and-forget announcement.
type Event struct {
	Name       string                 `json:"name"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// EventPublisher announces mutations to interested parties. Delivery is
// fire-and-forget: a publish failure is logged and never rolls back the
// mutation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event Event)
}

type redisEventPublisher struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewEventPublisher(redisClient *redis.Client, log *logrus.Logger) EventPublisher {
	return &redisEventPublisher{
		redisClient: redisClient,
		log:         log,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, channel string, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warnf("Failed to marshal event %s (non-fatal): %+v", event.Name, err)
		return
	}

	if err := p.redisClient.Publish(ctx, channel, body).Err(); err != nil {
		p.log.Warnf("Failed to publish event %s to %s (non-fatal): %+v", event.Name, channel, err)
	}
}
