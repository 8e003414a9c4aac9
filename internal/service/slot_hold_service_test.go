package service

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLoggerDiscard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestHoldTTL(t *testing.T) {
	s := NewSlotHoldService(nil, nil, testLoggerDiscard(), 24*time.Hour)

	date := time.Now().UTC().AddDate(0, 0, 3).Truncate(24 * time.Hour)
	ttl := s.holdTTL(date)

	// A hold three days out expires between three and four days from now.
	if ttl < 72*time.Hour || ttl > 96*time.Hour {
		t.Errorf("ttl = %v, want within (72h, 96h]", ttl)
	}
}

func TestHoldTTLConfigurableGrace(t *testing.T) {
	s := NewSlotHoldService(nil, nil, testLoggerDiscard(), 2*time.Hour)

	date := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	ttl := s.holdTTL(date)

	if ttl > 26*time.Hour {
		t.Errorf("ttl = %v exceeds tomorrow plus the 2h grace", ttl)
	}
}

func TestHoldTTLFloorsExpiredDates(t *testing.T) {
	s := NewSlotHoldService(nil, nil, testLoggerDiscard(), 24*time.Hour)

	stale := time.Now().UTC().AddDate(0, 0, -7)
	if ttl := s.holdTTL(stale); ttl != time.Minute {
		t.Errorf("ttl for a stale date = %v, want the 1m floor", ttl)
	}
}

func TestHoldGraceDefault(t *testing.T) {
	s := NewSlotHoldService(nil, nil, testLoggerDiscard(), 0)
	if s.holdGrace != 24*time.Hour {
		t.Errorf("holdGrace = %v, want the one-day default", s.holdGrace)
	}
}
