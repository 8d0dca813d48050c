// file: internals/features/school/academics/model/academic_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// PROGRAM (class)
// =========================================================

type Program struct {
	// PK
	ProgramID uuid.UUID `gorm:"column:program_id;type:uuid;primaryKey" json:"program_id"`

	ProgramName string `gorm:"column:program_name;type:varchar(80);not null;uniqueIndex:uniq_program_name" json:"program_name"`

	ProgramCreatedAt time.Time      `gorm:"column:program_created_at;not null" json:"program_created_at"`
	ProgramUpdatedAt time.Time      `gorm:"column:program_updated_at;not null" json:"program_updated_at"`
	ProgramDeletedAt gorm.DeletedAt `gorm:"column:program_deleted_at;index" json:"-"`
}

func (Program) TableName() string { return "programs" }

func (m *Program) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ProgramID == uuid.Nil {
		m.ProgramID = uuid.New()
	}
	now := time.Now()
	if m.ProgramCreatedAt.IsZero() {
		m.ProgramCreatedAt = now
	}
	m.ProgramUpdatedAt = now
	return nil
}

// =========================================================
// ACADEMIC YEAR / TERM
// =========================================================

type AcademicYear struct {
	// PK
	AcademicYearID uuid.UUID `gorm:"column:academic_year_id;type:uuid;primaryKey" json:"academic_year_id"`

	AcademicYearName      string    `gorm:"column:academic_year_name;type:varchar(20);not null;uniqueIndex:uniq_academic_year_name" json:"academic_year_name"`
	AcademicYearStartDate time.Time `gorm:"column:academic_year_start_date;not null" json:"academic_year_start_date"`
	AcademicYearEndDate   time.Time `gorm:"column:academic_year_end_date;not null" json:"academic_year_end_date"`

	// Exactly one current year; kept on the row instead of a settings single
	AcademicYearIsCurrent bool `gorm:"column:academic_year_is_current;not null;default:false;index" json:"academic_year_is_current"`

	AcademicYearCreatedAt time.Time `gorm:"column:academic_year_created_at;not null" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time `gorm:"column:academic_year_updated_at;not null" json:"academic_year_updated_at"`
}

func (AcademicYear) TableName() string { return "academic_years" }

func (m *AcademicYear) BeforeCreate(tx *gorm.DB) (err error) {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	now := time.Now()
	if m.AcademicYearCreatedAt.IsZero() {
		m.AcademicYearCreatedAt = now
	}
	m.AcademicYearUpdatedAt = now
	return nil
}

type AcademicTerm struct {
	// PK
	AcademicTermID uuid.UUID `gorm:"column:academic_term_id;type:uuid;primaryKey" json:"academic_term_id"`

	// FK → academic_years(academic_year_id)
	AcademicTermYearID uuid.UUID `gorm:"column:academic_term_year_id;type:uuid;not null;index" json:"academic_term_year_id"`

	AcademicTermName      string    `gorm:"column:academic_term_name;type:varchar(40);not null" json:"academic_term_name"`
	AcademicTermStartDate time.Time `gorm:"column:academic_term_start_date;not null" json:"academic_term_start_date"`
	AcademicTermEndDate   time.Time `gorm:"column:academic_term_end_date;not null" json:"academic_term_end_date"`

	AcademicTermCreatedAt time.Time `gorm:"column:academic_term_created_at;not null" json:"academic_term_created_at"`
	AcademicTermUpdatedAt time.Time `gorm:"column:academic_term_updated_at;not null" json:"academic_term_updated_at"`
}

func (AcademicTerm) TableName() string { return "academic_terms" }

func (m *AcademicTerm) BeforeCreate(tx *gorm.DB) (err error) {
	if m.AcademicTermID == uuid.Nil {
		m.AcademicTermID = uuid.New()
	}
	now := time.Now()
	if m.AcademicTermCreatedAt.IsZero() {
		m.AcademicTermCreatedAt = now
	}
	m.AcademicTermUpdatedAt = now
	return nil
}
