package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hospital-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrSlotHeld is returned when the slot key is already held.
var ErrSlotHeld = errors.New("slot is already held")

// claimSlotScript atomically claims a slot hold key if and only if it does
// not exist, with a TTL. The Redis Go client switches to EVALSHA after the
// first call, so under booking bursts only the hash travels.
//
// Logic:
// 1. SET key NX with expiry
// 2. result is 1 when the claim won, 0 when another request holds the key
var claimSlotScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
	return 1
`)

const (
	// Redis key prefix for slot holds
	RedisSlotHoldPrefix = "slot:hold:"

	// Batch size for startup sync
	syncBatchSize = 500
)

// SlotHolder is the booking usecase's view of the hold gate.
type SlotHolder interface {
	ClaimSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) error
	ReleaseSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) error
}

// SlotHoldService keeps a Redis hold key per claimed slot so concurrent
// booking requests are answered from Redis before the database insert.
// The database partial unique index stays authoritative; the hold is the
// high-concurrency front gate and is rebuilt from the appointments table
// on startup.
type SlotHoldService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	holdGrace   time.Duration
}

// NewSlotHoldService builds the hold gate. holdGrace is how long past its
// calendar date a hold key lingers before Redis expires it; zero means one
// day.
func NewSlotHoldService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, holdGrace time.Duration) *SlotHoldService {
	if holdGrace <= 0 {
		holdGrace = 24 * time.Hour
	}
	return &SlotHoldService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		holdGrace:   holdGrace,
	}
}

func slotHoldKey(doctorID uuid.UUID, date time.Time, startTime string) string {
	return fmt.Sprintf("%s%s:%s:%s", RedisSlotHoldPrefix, doctorID, date.Format("2006-01-02"), startTime)
}

// ClaimSlot atomically claims the hold for one (doctor, date, start-time)
// key. Returns ErrSlotHeld when another booking got there first.
func (s *SlotHoldService) ClaimSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) error {
	key := slotHoldKey(doctorID, date, startTime)
	ttl := int(s.holdTTL(date).Seconds())

	result, err := claimSlotScript.Run(ctx, s.redisClient, []string{key}, "held", ttl).Int()
	if err != nil {
		s.log.Warnf("Failed Lua script ClaimSlot for key %s: %+v", key, err)
		return fmt.Errorf("lua claim_slot for key %s: %w", key, err)
	}
	if result == 0 {
		return ErrSlotHeld
	}

	s.log.Debugf("Claimed slot hold: %s", key)
	return nil
}

// ReleaseSlot drops the hold key. Called on compensation (DB insert
// failed after a successful claim) and on appointment cancellation.
func (s *SlotHoldService) ReleaseSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, startTime string) error {
	key := slotHoldKey(doctorID, date, startTime)
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.log.Warnf("Failed to release slot hold %s: %+v", key, err)
		return fmt.Errorf("release slot hold %s: %w", key, err)
	}

	s.log.Debugf("Released slot hold: %s", key)
	return nil
}

// SyncOnStartup rebuilds hold keys for every non-cancelled future
// appointment, in batches, with one pipeline per batch. Should run before
// accepting traffic so Redis answers match the database after a restart
// or cache flush.
func (s *SlotHoldService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting slot hold re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	offset := 0
	totalSynced := 0

	for {
		var appointments []entity.Appointment
		err := s.db.WithContext(ctx).
			Where("appointment_date >= ? AND status != ?", today, entity.AppointmentStatusCancelled).
			Order("id").
			Limit(syncBatchSize).
			Offset(offset).
			Find(&appointments).Error
		if err != nil {
			s.log.Errorf("Failed to query appointments at offset %d: %+v", offset, err)
			return fmt.Errorf("query appointments at offset %d: %w", offset, err)
		}

		if len(appointments) == 0 {
			if offset == 0 {
				s.log.Info("No active appointments found for sync")
			}
			break
		}

		// New pipeline per batch so memory stays bounded
		pipe := s.redisClient.TxPipeline()
		for i := range appointments {
			a := &appointments[i]
			key := slotHoldKey(a.DoctorID, a.AppointmentDate, a.TimeSlot)
			pipe.Set(ctx, key, "held", s.holdTTL(a.AppointmentDate))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(appointments)
		if len(appointments) < syncBatchSize {
			break
		}
		offset += syncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Slot hold re-sync completed: %d holds synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// holdTTL expires a hold holdGrace after its slot's calendar date.
func (s *SlotHoldService) holdTTL(date time.Time) time.Duration {
	expireAt := date.Add(s.holdGrace)
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return 1 * time.Minute
	}
	return ttl
}
