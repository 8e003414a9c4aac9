package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SlotWidthMinutes is the fixed width of a bookable slot.
const SlotWidthMinutes = 30

// ScheduleBlock represents one availability window of a doctor's
// consultation schedule. A block is either recurring (DayOfWeek set) or a
// one-off override for a single calendar date (SpecificDate set). A
// specific-date block overrides every recurring block for that date, which
// is how single-day cancellations and extra sessions are configured.
type ScheduleBlock struct {
	ID           int        `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DayOfWeek    *int       `gorm:"type:smallint" json:"day_of_week,omitempty"` // 0=Sunday .. 6=Saturday
	SpecificDate *time.Time `gorm:"type:date;index" json:"specific_date,omitempty"`
	StartTime    string     `gorm:"type:time;not null" json:"start_time"` // HH:MM
	EndTime      string     `gorm:"type:time;not null" json:"end_time"`   // HH:MM
	Location     string     `gorm:"type:varchar(100)" json:"location,omitempty"`
	IsAvailable  bool       `gorm:"not null;default:true" json:"is_available"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (ScheduleBlock) TableName() string {
	return "schedule_blocks"
}

// TimeSlot is one bookable unit derived from a schedule block. Slots are
// never persisted; they are recomputed from blocks and appointments on
// every availability read.
type TimeSlot struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"` // HH:MM, 24-hour
	EndTime   string    `json:"end_time"`
	Location  string    `json:"location,omitempty"`
}

// MinuteOfDay normalizes a slot label to its 24-hour minute offset so that
// "02:00 PM" sorts after "09:00 AM". Accepts "15:04", "3:04 PM" and
// "03:04PM" forms.
func MinuteOfDay(label string) (int, error) {
	s := strings.TrimSpace(label)
	layouts := []string{"15:04", "3:04 PM", "3:04PM", "15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time label %q", label)
}

func minutesToLabel(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AppliesTo reports whether the block covers the given calendar date.
func (b *ScheduleBlock) AppliesTo(date time.Time) bool {
	if b.SpecificDate != nil {
		return sameDate(*b.SpecificDate, date)
	}
	if b.DayOfWeek != nil {
		return int(date.Weekday()) == *b.DayOfWeek
	}
	return false
}

// Expand splits the block's [start, end) interval into fixed-width slots.
// An inverted or zero-length interval yields no slots.
func (b *ScheduleBlock) Expand(date time.Time) []TimeSlot {
	start, err := MinuteOfDay(b.StartTime)
	if err != nil {
		return nil
	}
	end, err := MinuteOfDay(b.EndTime)
	if err != nil {
		return nil
	}

	var slots []TimeSlot
	for m := start; m+SlotWidthMinutes <= end; m += SlotWidthMinutes {
		slots = append(slots, TimeSlot{
			DoctorID:  b.DoctorID,
			Date:      date,
			StartTime: minutesToLabel(m),
			EndTime:   minutesToLabel(m + SlotWidthMinutes),
			Location:  b.Location,
		})
	}
	return slots
}

// ResolveAvailableSlots computes the bookable slots for one doctor and one
// date from the doctor's schedule blocks, excluding slots whose start time
// is held by a non-cancelled appointment.
//
// Selection rules:
//   - if any block targets the exact date, only specific-date blocks are
//     considered (a one-off override suppresses the recurring schedule);
//   - otherwise recurring blocks matching the weekday apply;
//   - only is_available blocks generate slots;
//   - no applicable block means an empty result, not an error.
//
// Overlapping blocks are expanded independently and collapsed by
// (start time, location) afterwards; the result is chronological.
func ResolveAvailableSlots(blocks []ScheduleBlock, date time.Time, bookedStartTimes []string) []TimeSlot {
	specific := false
	for i := range blocks {
		if blocks[i].SpecificDate != nil && sameDate(*blocks[i].SpecificDate, date) {
			specific = true
			break
		}
	}

	booked := make(map[int]bool, len(bookedStartTimes))
	for _, label := range bookedStartTimes {
		if m, err := MinuteOfDay(label); err == nil {
			booked[m] = true
		}
	}

	type slotKey struct {
		minute   int
		location string
	}
	seen := make(map[slotKey]bool)

	var slots []TimeSlot
	for i := range blocks {
		b := &blocks[i]
		if specific && b.SpecificDate == nil {
			continue
		}
		if !b.AppliesTo(date) || !b.IsAvailable {
			continue
		}
		for _, slot := range b.Expand(date) {
			m, err := MinuteOfDay(slot.StartTime)
			if err != nil {
				continue
			}
			if booked[m] {
				continue
			}
			key := slotKey{minute: m, location: slot.Location}
			if seen[key] {
				continue
			}
			seen[key] = true
			slots = append(slots, slot)
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		mi, _ := MinuteOfDay(slots[i].StartTime)
		mj, _ := MinuteOfDay(slots[j].StartTime)
		if mi != mj {
			return mi < mj
		}
		return slots[i].Location < slots[j].Location
	})

	return slots
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
