// file: internals/features/school/enrollment/model/student_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// MODEL
// =========================================================

// Student is the person profile behind an account. Exactly one profile
// per account in the onboarding flow; the GR number is the external
// identifier the school tracks.
type Student struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	// FK → accounts(account_id)
	StudentAccountID uuid.UUID `gorm:"column:student_account_id;type:uuid;not null;index" json:"student_account_id"`

	StudentFirstName  string `gorm:"column:student_first_name;type:varchar(60);not null" json:"student_first_name"`
	StudentMiddleName string `gorm:"column:student_middle_name;type:varchar(60)" json:"student_middle_name,omitempty"`
	StudentLastName   string `gorm:"column:student_last_name;type:varchar(60)" json:"student_last_name,omitempty"`

	StudentEmail string `gorm:"column:student_email;type:varchar(120);not null;index" json:"student_email"`
	StudentPhone string `gorm:"column:student_phone;type:varchar(20)" json:"student_phone,omitempty"`

	StudentGRNumber string `gorm:"column:student_gr_number;type:varchar(30);not null;uniqueIndex:uniq_student_gr_number" json:"student_gr_number"`

	StudentDateOfBirth *time.Time `gorm:"column:student_date_of_birth" json:"student_date_of_birth,omitempty"`

	// Timestamps
	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;not null" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

// =========================================================
// HOOKS
// =========================================================

func (m *Student) BeforeCreate(tx *gorm.DB) (err error) {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	now := time.Now()
	if m.StudentCreatedAt.IsZero() {
		m.StudentCreatedAt = now
	}
	m.StudentUpdatedAt = now
	return nil
}

func (m *Student) BeforeUpdate(tx *gorm.DB) (err error) {
	m.StudentUpdatedAt = time.Now()
	return nil
}

func (m *Student) FullName() string {
	parts := []string{m.StudentFirstName, m.StudentMiddleName, m.StudentLastName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, " ")
}
