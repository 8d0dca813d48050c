// file: internals/features/school/enrollment/model/instructor_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstructorStatus string

const (
	InstructorStatusActive InstructorStatus = "active"
	InstructorStatusLeft   InstructorStatus = "left"
)

// Instructor is the staff profile; the attendance-device id is its
// external identifier (biometric / RF tag).
type Instructor struct {
	// PK
	InstructorID uuid.UUID `gorm:"column:instructor_id;type:uuid;primaryKey" json:"instructor_id"`

	// FK → accounts(account_id)
	InstructorAccountID uuid.UUID `gorm:"column:instructor_account_id;type:uuid;not null;index" json:"instructor_account_id"`

	InstructorFirstName  string `gorm:"column:instructor_first_name;type:varchar(60);not null" json:"instructor_first_name"`
	InstructorMiddleName string `gorm:"column:instructor_middle_name;type:varchar(60)" json:"instructor_middle_name,omitempty"`
	InstructorLastName   string `gorm:"column:instructor_last_name;type:varchar(60)" json:"instructor_last_name,omitempty"`

	InstructorEmail string `gorm:"column:instructor_email;type:varchar(120);not null" json:"instructor_email"`
	InstructorPhone string `gorm:"column:instructor_phone;type:varchar(20);not null" json:"instructor_phone"`

	// Attendance device id; unique when present
	InstructorDeviceID *string `gorm:"column:instructor_device_id;type:varchar(40);uniqueIndex:uniq_instructor_device_id" json:"instructor_device_id,omitempty"`

	InstructorGender        string     `gorm:"column:instructor_gender;type:varchar(10)" json:"instructor_gender,omitempty"`
	InstructorQualification string     `gorm:"column:instructor_qualification;type:varchar(120)" json:"instructor_qualification,omitempty"`
	InstructorDateOfBirth   *time.Time `gorm:"column:instructor_date_of_birth" json:"instructor_date_of_birth,omitempty"`
	InstructorDateOfJoining *time.Time `gorm:"column:instructor_date_of_joining" json:"instructor_date_of_joining,omitempty"`

	InstructorStatus InstructorStatus `gorm:"column:instructor_status;type:varchar(20);not null;default:'active'" json:"instructor_status"`

	// Timestamps
	InstructorCreatedAt time.Time      `gorm:"column:instructor_created_at;not null" json:"instructor_created_at"`
	InstructorUpdatedAt time.Time      `gorm:"column:instructor_updated_at;not null" json:"instructor_updated_at"`
	InstructorDeletedAt gorm.DeletedAt `gorm:"column:instructor_deleted_at;index" json:"-"`
}

func (Instructor) TableName() string {
	return "instructors"
}

func (m *Instructor) BeforeCreate(tx *gorm.DB) (err error) {
	if m.InstructorID == uuid.Nil {
		m.InstructorID = uuid.New()
	}
	now := time.Now()
	if m.InstructorCreatedAt.IsZero() {
		m.InstructorCreatedAt = now
	}
	m.InstructorUpdatedAt = now
	return nil
}

func (m *Instructor) BeforeUpdate(tx *gorm.DB) (err error) {
	m.InstructorUpdatedAt = time.Now()
	return nil
}

func (m *Instructor) FullName() string {
	parts := []string{m.InstructorFirstName, m.InstructorMiddleName, m.InstructorLastName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, " ")
}
