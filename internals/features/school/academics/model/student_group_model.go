// file: internals/features/school/academics/model/student_group_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// STUDENT GROUP (division)
// =========================================================

// StudentGroup owns the ordered roster of a class division. The version
// column is bumped on every roster save; a stale save loses the race and
// must be retried by the caller (one batch per group at a time).
type StudentGroup struct {
	// PK
	StudentGroupID uuid.UUID `gorm:"column:student_group_id;type:uuid;primaryKey" json:"student_group_id"`

	StudentGroupName string `gorm:"column:student_group_name;type:varchar(80);not null;index" json:"student_group_name"`

	// FK (composite uniqueness: one division name per program+year)
	StudentGroupProgramID uuid.UUID `gorm:"column:student_group_program_id;type:uuid;not null;uniqueIndex:uniq_group_program_batch_year,priority:1" json:"student_group_program_id"`
	StudentGroupBatch     string    `gorm:"column:student_group_batch;type:varchar(40);not null;uniqueIndex:uniq_group_program_batch_year,priority:2" json:"student_group_batch"`
	StudentGroupYearID    uuid.UUID `gorm:"column:student_group_year_id;type:uuid;not null;uniqueIndex:uniq_group_program_batch_year,priority:3" json:"student_group_year_id"`

	// Optimistic concurrency for the read-once/save-once roster flow
	StudentGroupVersion int `gorm:"column:student_group_version;not null;default:0" json:"student_group_version"`

	StudentGroupCreatedAt time.Time      `gorm:"column:student_group_created_at;not null" json:"student_group_created_at"`
	StudentGroupUpdatedAt time.Time      `gorm:"column:student_group_updated_at;not null" json:"student_group_updated_at"`
	StudentGroupDeletedAt gorm.DeletedAt `gorm:"column:student_group_deleted_at;index" json:"-"`
}

func (StudentGroup) TableName() string { return "student_groups" }

func (m *StudentGroup) BeforeCreate(tx *gorm.DB) (err error) {
	if m.StudentGroupID == uuid.Nil {
		m.StudentGroupID = uuid.New()
	}
	now := time.Now()
	if m.StudentGroupCreatedAt.IsZero() {
		m.StudentGroupCreatedAt = now
	}
	m.StudentGroupUpdatedAt = now
	return nil
}

func (m *StudentGroup) BeforeUpdate(tx *gorm.DB) (err error) {
	m.StudentGroupUpdatedAt = time.Now()
	return nil
}

// =========================================================
// ROSTER ENTRY
// =========================================================

// StudentGroupMember is one roster row. Roll numbers are monotonically
// assigned per group and never reused; no two rows in a group share one.
type StudentGroupMember struct {
	// PK
	MemberID uuid.UUID `gorm:"column:member_id;type:uuid;primaryKey" json:"member_id"`

	MemberGroupID   uuid.UUID `gorm:"column:member_group_id;type:uuid;not null;uniqueIndex:uniq_member_group_roll,priority:1;uniqueIndex:uniq_member_group_student,priority:1" json:"member_group_id"`
	MemberStudentID uuid.UUID `gorm:"column:member_student_id;type:uuid;not null;uniqueIndex:uniq_member_group_student,priority:2" json:"member_student_id"`

	MemberStudentName string `gorm:"column:member_student_name;type:varchar(180);not null" json:"member_student_name"`
	MemberRollNumber  int    `gorm:"column:member_roll_number;not null;uniqueIndex:uniq_member_group_roll,priority:2" json:"member_roll_number"`
	MemberActive      bool   `gorm:"column:member_active;not null;default:true" json:"member_active"`

	MemberCreatedAt time.Time `gorm:"column:member_created_at;not null" json:"member_created_at"`
}

func (StudentGroupMember) TableName() string { return "student_group_members" }

func (m *StudentGroupMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	if m.MemberCreatedAt.IsZero() {
		m.MemberCreatedAt = time.Now()
	}
	return nil
}

// =========================================================
// GROUP INSTRUCTOR
// =========================================================

type GroupInstructor struct {
	// PK
	GroupInstructorID uuid.UUID `gorm:"column:group_instructor_id;type:uuid;primaryKey" json:"group_instructor_id"`

	GroupInstructorGroupID      uuid.UUID `gorm:"column:group_instructor_group_id;type:uuid;not null;uniqueIndex:uniq_group_instructor,priority:1" json:"group_instructor_group_id"`
	GroupInstructorInstructorID uuid.UUID `gorm:"column:group_instructor_instructor_id;type:uuid;not null;uniqueIndex:uniq_group_instructor,priority:2" json:"group_instructor_instructor_id"`

	GroupInstructorCreatedAt time.Time `gorm:"column:group_instructor_created_at;not null" json:"group_instructor_created_at"`
}

func (GroupInstructor) TableName() string { return "student_group_instructors" }

func (m *GroupInstructor) BeforeCreate(tx *gorm.DB) (err error) {
	if m.GroupInstructorID == uuid.Nil {
		m.GroupInstructorID = uuid.New()
	}
	if m.GroupInstructorCreatedAt.IsZero() {
		m.GroupInstructorCreatedAt = time.Now()
	}
	return nil
}
