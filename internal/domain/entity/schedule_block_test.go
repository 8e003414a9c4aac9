package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func datePtr(t time.Time) *time.Time { return &t }

// Wednesday
var testDate = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

func TestMinuteOfDay(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"14:30", 870, false},
		{"00:00", 0, false},
		{"9:00 AM", 540, false},
		{"2:30 PM", 870, false},
		{"02:30PM", 870, false},
		{"12:00 PM", 720, false},
		{"12:00 AM", 0, false},
		{"  10:00 ", 600, false},
		{"10:30:00", 630, false},
		{"half past nine", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := MinuteOfDay(tt.label)
		if tt.wantErr {
			if err == nil {
				t.Errorf("MinuteOfDay(%q) = %d, expected error", tt.label, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("MinuteOfDay(%q) returned error: %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("MinuteOfDay(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestExpandSplitsBlockIntoSlots(t *testing.T) {
	block := ScheduleBlock{
		DoctorID:    uuid.New(),
		DayOfWeek:   intPtr(int(testDate.Weekday())),
		StartTime:   "09:00",
		EndTime:     "11:00",
		Location:    "OPD-1",
		IsAvailable: true,
	}

	slots := block.Expand(testDate)
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}

	wantStarts := []string{"09:00", "09:30", "10:00", "10:30"}
	for i, slot := range slots {
		if slot.StartTime != wantStarts[i] {
			t.Errorf("slot %d start = %s, want %s", i, slot.StartTime, wantStarts[i])
		}
		if slot.Location != "OPD-1" {
			t.Errorf("slot %d location = %s, want OPD-1", i, slot.Location)
		}
	}
	if slots[3].EndTime != "11:00" {
		t.Errorf("last slot end = %s, want 11:00", slots[3].EndTime)
	}
}

func TestExpandIgnoresPartialTrailingSlot(t *testing.T) {
	block := ScheduleBlock{StartTime: "09:00", EndTime: "09:45"}

	slots := block.Expand(testDate)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot for a 45-minute window, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[0].EndTime != "09:30" {
		t.Errorf("slot = %s-%s, want 09:00-09:30", slots[0].StartTime, slots[0].EndTime)
	}
}

func TestExpandInvertedIntervalYieldsNothing(t *testing.T) {
	block := ScheduleBlock{StartTime: "17:00", EndTime: "09:00"}
	if slots := block.Expand(testDate); len(slots) != 0 {
		t.Errorf("inverted interval produced %d slots, want 0", len(slots))
	}

	zero := ScheduleBlock{StartTime: "09:00", EndTime: "09:00"}
	if slots := zero.Expand(testDate); len(slots) != 0 {
		t.Errorf("zero-length interval produced %d slots, want 0", len(slots))
	}
}

func TestResolveAvailableSlotsExcludesBooked(t *testing.T) {
	doctorID := uuid.New()
	blocks := []ScheduleBlock{
		{
			DoctorID:    doctorID,
			DayOfWeek:   intPtr(int(testDate.Weekday())),
			StartTime:   "09:00",
			EndTime:     "11:00",
			IsAvailable: true,
		},
	}

	slots := ResolveAvailableSlots(blocks, testDate, []string{"09:30", "10:00"})
	if len(slots) != 2 {
		t.Fatalf("expected 2 free slots, got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[1].StartTime != "10:30" {
		t.Errorf("free slots = %s, %s; want 09:00, 10:30", slots[0].StartTime, slots[1].StartTime)
	}
}

func TestResolveAvailableSlotsNormalizesBookedLabels(t *testing.T) {
	blocks := []ScheduleBlock{
		{
			DayOfWeek:   intPtr(int(testDate.Weekday())),
			StartTime:   "14:00",
			EndTime:     "15:00",
			IsAvailable: true,
		},
	}

	// Booked labels in 12-hour form must still knock out 24-hour slots
	slots := ResolveAvailableSlots(blocks, testDate, []string{"2:00 PM"})
	if len(slots) != 1 {
		t.Fatalf("expected 1 free slot, got %d", len(slots))
	}
	if slots[0].StartTime != "14:30" {
		t.Errorf("free slot = %s, want 14:30", slots[0].StartTime)
	}
}

func TestResolveAvailableSlotsChronologicalAcrossMeridian(t *testing.T) {
	// Two blocks deliberately out of order: the afternoon one first.
	blocks := []ScheduleBlock{
		{
			DayOfWeek:   intPtr(int(testDate.Weekday())),
			StartTime:   "02:00 PM",
			EndTime:     "03:00 PM",
			IsAvailable: true,
		},
		{
			DayOfWeek:   intPtr(int(testDate.Weekday())),
			StartTime:   "09:00 AM",
			EndTime:     "10:00 AM",
			IsAvailable: true,
		},
	}

	slots := ResolveAvailableSlots(blocks, testDate, nil)
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}

	wantStarts := []string{"09:00", "09:30", "14:00", "14:30"}
	for i, slot := range slots {
		if slot.StartTime != wantStarts[i] {
			t.Errorf("slot %d = %s, want %s (morning must sort before afternoon)", i, slot.StartTime, wantStarts[i])
		}
	}
}

func TestResolveAvailableSlotsSkipsUnavailableBlocks(t *testing.T) {
	blocks := []ScheduleBlock{
		{
			DayOfWeek:   intPtr(int(testDate.Weekday())),
			StartTime:   "09:00",
			EndTime:     "10:00",
			IsAvailable: false,
		},
	}

	if slots := ResolveAvailableSlots(blocks, testDate, nil); len(slots) != 0 {
		t.Errorf("unavailable block produced %d slots, want 0", len(slots))
	}
}

func TestResolveAvailableSlotsSpecificDateOverridesRecurring(t *testing.T) {
	blocks := []ScheduleBlock{
		{
			DayOfWeek:   intPtr(int(testDate.Weekday())),
			StartTime:   "09:00",
			EndTime:     "12:00",
			IsAvailable: true,
		},
		{
			SpecificDate: datePtr(testDate),
			StartTime:    "15:00",
			EndTime:      "16:00",
			IsAvailable:  true,
		},
	}

	slots := ResolveAvailableSlots(blocks, testDate, nil)
	if len(slots) != 2 {
		t.Fatalf("expected only the override's 2 slots, got %d", len(slots))
	}
	if slots[0].StartTime != "15:00" {
		t.Errorf("first slot = %s, want 15:00", slots[0].StartTime)
	}

	// On any other matching weekday the recurring block applies as usual
	nextWeek := testDate.AddDate(0, 0, 7)
	slots = ResolveAvailableSlots(blocks, nextWeek, nil)
	if len(slots) != 6 {
		t.Errorf("expected 6 recurring slots on %s, got %d", nextWeek.Format("2006-01-02"), len(slots))
	}
}

func TestResolveAvailableSlotsDayOffOverride(t *testing.T) {
	// A specific-date block marked unavailable cancels the whole day.
	blocks := []ScheduleBlock{
		{
			DayOfWeek:   intPtr(int(testDate.Weekday())),
			StartTime:   "09:00",
			EndTime:     "12:00",
			IsAvailable: true,
		},
		{
			SpecificDate: datePtr(testDate),
			StartTime:    "09:00",
			EndTime:      "12:00",
			IsAvailable:  false,
		},
	}

	if slots := ResolveAvailableSlots(blocks, testDate, nil); len(slots) != 0 {
		t.Errorf("day-off override produced %d slots, want 0", len(slots))
	}
}

func TestResolveAvailableSlotsDeduplicatesOverlap(t *testing.T) {
	weekday := intPtr(int(testDate.Weekday()))
	blocks := []ScheduleBlock{
		{DayOfWeek: weekday, StartTime: "09:00", EndTime: "11:00", Location: "OPD-1", IsAvailable: true},
		{DayOfWeek: weekday, StartTime: "10:00", EndTime: "12:00", Location: "OPD-1", IsAvailable: true},
	}

	slots := ResolveAvailableSlots(blocks, testDate, nil)
	if len(slots) != 6 {
		t.Fatalf("expected 6 deduplicated slots 09:00-12:00, got %d", len(slots))
	}
	seen := map[string]bool{}
	for _, slot := range slots {
		if seen[slot.StartTime] {
			t.Errorf("duplicate slot %s", slot.StartTime)
		}
		seen[slot.StartTime] = true
	}
}

func TestResolveAvailableSlotsNoApplicableBlock(t *testing.T) {
	blocks := []ScheduleBlock{
		{
			DayOfWeek:   intPtr((int(testDate.Weekday()) + 1) % 7),
			StartTime:   "09:00",
			EndTime:     "12:00",
			IsAvailable: true,
		},
	}

	if slots := ResolveAvailableSlots(blocks, testDate, nil); len(slots) != 0 {
		t.Errorf("non-matching weekday produced %d slots, want 0", len(slots))
	}
	if slots := ResolveAvailableSlots(nil, testDate, nil); len(slots) != 0 {
		t.Errorf("empty schedule produced %d slots, want 0", len(slots))
	}
}
