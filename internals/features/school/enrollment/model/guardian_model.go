// file: internals/features/school/enrollment/model/guardian_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// ENUM: guardian relation
// =========================================================

type GuardianRelation string

const (
	RelationFather      GuardianRelation = "Father"
	RelationMother      GuardianRelation = "Mother"
	RelationGrandfather GuardianRelation = "Grandfather"
	RelationGrandmother GuardianRelation = "Grandmother"
	RelationBrother     GuardianRelation = "Brother"
	RelationSister      GuardianRelation = "Sister"
	RelationUncle       GuardianRelation = "Uncle"
	RelationAunt        GuardianRelation = "Aunt"
	RelationOthers      GuardianRelation = "Others"
)

var allowedRelations = map[GuardianRelation]struct{}{
	RelationFather: {}, RelationMother: {}, RelationGrandfather: {},
	RelationGrandmother: {}, RelationBrother: {}, RelationSister: {},
	RelationUncle: {}, RelationAunt: {}, RelationOthers: {},
}

// CoerceRelation maps unknown relation values to Others instead of rejecting.
func CoerceRelation(raw string) GuardianRelation {
	rel := GuardianRelation(strings.TrimSpace(raw))
	if _, ok := allowedRelations[rel]; ok {
		return rel
	}
	return RelationOthers
}

// =========================================================
// MODELS
// =========================================================

// Guardian may be shared across several students (many-to-many via
// StudentGuardian). The phone number is its resolution key.
type Guardian struct {
	// PK
	GuardianID uuid.UUID `gorm:"column:guardian_id;type:uuid;primaryKey" json:"guardian_id"`

	// FK → accounts(account_id)
	GuardianAccountID uuid.UUID `gorm:"column:guardian_account_id;type:uuid;not null;index" json:"guardian_account_id"`

	GuardianName  string `gorm:"column:guardian_name;type:varchar(120);not null" json:"guardian_name"`
	GuardianPhone string `gorm:"column:guardian_phone;type:varchar(20);not null;uniqueIndex:uniq_guardian_phone" json:"guardian_phone"`
	GuardianEmail string `gorm:"column:guardian_email;type:varchar(120)" json:"guardian_email,omitempty"`

	// Free-form bag: occupation, designation, work_address, education, date_of_birth
	GuardianExtra datatypes.JSONMap `gorm:"column:guardian_extra" json:"guardian_extra,omitempty"`

	// Timestamps
	GuardianCreatedAt time.Time      `gorm:"column:guardian_created_at;not null" json:"guardian_created_at"`
	GuardianUpdatedAt time.Time      `gorm:"column:guardian_updated_at;not null" json:"guardian_updated_at"`
	GuardianDeletedAt gorm.DeletedAt `gorm:"column:guardian_deleted_at;index" json:"-"`
}

func (Guardian) TableName() string {
	return "guardians"
}

func (m *Guardian) BeforeCreate(tx *gorm.DB) (err error) {
	if m.GuardianID == uuid.Nil {
		m.GuardianID = uuid.New()
	}
	now := time.Now()
	if m.GuardianCreatedAt.IsZero() {
		m.GuardianCreatedAt = now
	}
	m.GuardianUpdatedAt = now
	return nil
}

func (m *Guardian) BeforeUpdate(tx *gorm.DB) (err error) {
	m.GuardianUpdatedAt = time.Now()
	return nil
}

// StudentGuardian links a student to a guardian. At most one link per
// (student, guardian) pair.
type StudentGuardian struct {
	// PK
	StudentGuardianID uuid.UUID `gorm:"column:student_guardian_id;type:uuid;primaryKey" json:"student_guardian_id"`

	StudentGuardianStudentID  uuid.UUID `gorm:"column:student_guardian_student_id;type:uuid;not null;uniqueIndex:uniq_student_guardian,priority:1" json:"student_guardian_student_id"`
	StudentGuardianGuardianID uuid.UUID `gorm:"column:student_guardian_guardian_id;type:uuid;not null;uniqueIndex:uniq_student_guardian,priority:2" json:"student_guardian_guardian_id"`

	StudentGuardianRelation GuardianRelation `gorm:"column:student_guardian_relation;type:varchar(20);not null;default:'Others'" json:"student_guardian_relation"`

	StudentGuardianCreatedAt time.Time `gorm:"column:student_guardian_created_at;not null" json:"student_guardian_created_at"`
}

func (StudentGuardian) TableName() string {
	return "student_guardians"
}

func (m *StudentGuardian) BeforeCreate(tx *gorm.DB) (err error) {
	if m.StudentGuardianID == uuid.Nil {
		m.StudentGuardianID = uuid.New()
	}
	if m.StudentGuardianCreatedAt.IsZero() {
		m.StudentGuardianCreatedAt = time.Now()
	}
	return nil
}
