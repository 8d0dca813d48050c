// file: internals/features/school/enrollment/model/enrollment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM: enrollment status
// =========================================================

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// =========================================================
// MODEL
// =========================================================

// ProgramEnrollment registers a student into a (program, group, academic
// year, term). At most one active enrollment per (student, year, program);
// the onboarding service enforces it before insert.
type ProgramEnrollment struct {
	// PK
	EnrollmentID uuid.UUID `gorm:"column:enrollment_id;type:uuid;primaryKey" json:"enrollment_id"`

	// FK → students(student_id)
	EnrollmentStudentID uuid.UUID `gorm:"column:enrollment_student_id;type:uuid;not null;index:ix_enrollment_student" json:"enrollment_student_id"`

	// FK → programs / student_groups / academic_years / academic_terms
	EnrollmentProgramID      uuid.UUID  `gorm:"column:enrollment_program_id;type:uuid;not null;index" json:"enrollment_program_id"`
	EnrollmentGroupID        uuid.UUID  `gorm:"column:enrollment_group_id;type:uuid;not null;index" json:"enrollment_group_id"`
	EnrollmentAcademicYearID uuid.UUID  `gorm:"column:enrollment_academic_year_id;type:uuid;not null;index" json:"enrollment_academic_year_id"`
	EnrollmentTermID         *uuid.UUID `gorm:"column:enrollment_term_id;type:uuid" json:"enrollment_term_id,omitempty"`

	EnrollmentStatus EnrollmentStatus `gorm:"column:enrollment_status;type:varchar(20);not null;default:'active';index" json:"enrollment_status"`

	// Timestamps
	EnrollmentCreatedAt time.Time      `gorm:"column:enrollment_created_at;not null" json:"enrollment_created_at"`
	EnrollmentUpdatedAt time.Time      `gorm:"column:enrollment_updated_at;not null" json:"enrollment_updated_at"`
	EnrollmentDeletedAt gorm.DeletedAt `gorm:"column:enrollment_deleted_at;index" json:"-"`
}

func (ProgramEnrollment) TableName() string {
	return "program_enrollments"
}

func (m *ProgramEnrollment) BeforeCreate(tx *gorm.DB) (err error) {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	now := time.Now()
	if m.EnrollmentCreatedAt.IsZero() {
		m.EnrollmentCreatedAt = now
	}
	m.EnrollmentUpdatedAt = now
	return nil
}

func (m *ProgramEnrollment) BeforeUpdate(tx *gorm.DB) (err error) {
	m.EnrollmentUpdatedAt = time.Now()
	return nil
}
