package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents an admitted patient in the hospital directory.
// UHID is the hospital-wide unique patient identifier printed on all
// clinical paperwork.
type PatientProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	UHID        string    `gorm:"column:uhid;type:varchar(20);uniqueIndex;not null" json:"uhid"`
	PhoneNumber string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	DateOfBirth time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Gender      string    `gorm:"type:char(1);not null" json:"gender"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	IsAdmitted  bool      `gorm:"not null;default:false;index" json:"is_admitted"`
	WardNumber  string    `gorm:"type:varchar(20)" json:"ward_number,omitempty"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
	OtCases      []OtCase      `gorm:"foreignKey:PatientID" json:"ot_cases,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// AgeAt returns the patient's age in whole years at the given date.
func (p *PatientProfile) AgeAt(at time.Time) int {
	years := at.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
