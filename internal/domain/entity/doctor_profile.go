package entity

import "github.com/google/uuid"

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	RegistrationNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"registration_number"`
	Specialization     string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Department         string    `gorm:"type:varchar(100);index" json:"department,omitempty"`
	Biography          string    `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User           User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ScheduleBlocks []ScheduleBlock `gorm:"foreignKey:DoctorID" json:"schedule_blocks,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
