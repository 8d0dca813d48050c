// file: internals/features/school/academics/service/roster.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alummah_backend/internals/features/school/academics/model"
	"alummah_backend/internals/helpers/apperr"
)

// RosterManager implements the read-once / mutate-in-memory / save-once
// roster flow: a batch loads the group's roster, stages appends while the
// rows are processed, and persists everything in one transaction at the
// end. The group's version column makes the save optimistic: a second
// writer that saved in between fails the batch's save with a conflict.
type RosterManager struct {
	DB *gorm.DB
}

func NewRosterManager(db *gorm.DB) *RosterManager {
	return &RosterManager{DB: db}
}

// Roster is the in-memory working copy for one batch.
type Roster struct {
	Group   model.StudentGroup
	Members []model.StudentGroupMember

	staged  []model.StudentGroupMember
	present map[uuid.UUID]struct{}
	maxRoll int
}

// Load resolves the group by program name + division name + current year
// and reads its roster once.
func (m *RosterManager) Load(programName, division string) (*Roster, error) {
	program, err := m.ProgramByName(programName)
	if err != nil {
		return nil, err
	}
	year, err := m.CurrentYear()
	if err != nil {
		return nil, err
	}

	var group model.StudentGroup
	err = m.DB.Where(
		"student_group_program_id = ? AND student_group_batch = ? AND student_group_year_id = ?",
		program.ProgramID, division, year.AcademicYearID,
	).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no student group found for program %q and division %q", programName, division)
	}
	if err != nil {
		return nil, err
	}
	return m.LoadByID(group.StudentGroupID)
}

func (m *RosterManager) LoadByID(groupID uuid.UUID) (*Roster, error) {
	var group model.StudentGroup
	err := m.DB.Where("student_group_id = ?", groupID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("student group %s not found", groupID)
	}
	if err != nil {
		return nil, err
	}

	var members []model.StudentGroupMember
	if err := m.DB.
		Where("member_group_id = ?", groupID).
		Order("member_roll_number ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	r := &Roster{
		Group:   group,
		Members: members,
		present: make(map[uuid.UUID]struct{}, len(members)),
	}
	for _, mem := range members {
		r.present[mem.MemberStudentID] = struct{}{}
		if mem.MemberRollNumber > r.maxRoll {
			r.maxRoll = mem.MemberRollNumber
		}
	}
	return r, nil
}

// Has reports whether the student is already on the roster (persisted or
// staged this batch).
func (r *Roster) Has(studentID uuid.UUID) bool {
	_, ok := r.present[studentID]
	return ok
}

// NextRoll returns the next unused roll number without consuming it.
func (r *Roster) NextRoll() int { return r.maxRoll + 1 }

// Stage appends a student with the next sequential roll number. Staging a
// student already present is a no-op (idempotent resubmission).
func (r *Roster) Stage(studentID uuid.UUID, studentName string) (roll int, added bool) {
	if r.Has(studentID) {
		return 0, false
	}
	r.maxRoll++
	r.staged = append(r.staged, model.StudentGroupMember{
		MemberGroupID:     r.Group.StudentGroupID,
		MemberStudentID:   studentID,
		MemberStudentName: studentName,
		MemberRollNumber:  r.maxRoll,
		MemberActive:      true,
	})
	r.present[studentID] = struct{}{}
	return r.maxRoll, true
}

func (r *Roster) StagedCount() int { return len(r.staged) }

// Save persists all staged entries in one transaction. The version bump
// is conditional on the version read at Load time; zero rows affected
// means another writer saved in between and the whole save is rejected.
func (m *RosterManager) Save(r *Roster) error {
	if len(r.staged) == 0 {
		return nil
	}
	return m.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.StudentGroup{}).
			Where("student_group_id = ? AND student_group_version = ?",
				r.Group.StudentGroupID, r.Group.StudentGroupVersion).
			Update("student_group_version", r.Group.StudentGroupVersion+1)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("roster for group %s was modified concurrently; re-run the batch", r.Group.StudentGroupID)
		}
		for i := range r.staged {
			if err := tx.Create(&r.staged[i]).Error; err != nil {
				return err
			}
		}
		r.Group.StudentGroupVersion++
		r.Members = append(r.Members, r.staged...)
		r.staged = nil
		return nil
	})
}

// AttachInstructor adds an instructor to a group by division name,
// skipping when already attached. Best-effort helper for instructor
// onboarding.
func (m *RosterManager) AttachInstructor(division string, instructorID uuid.UUID) error {
	var group model.StudentGroup
	err := m.DB.Where("student_group_batch = ?", division).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("no student group found for division %q", division)
	}
	if err != nil {
		return err
	}

	var n int64
	if err := m.DB.Model(&model.GroupInstructor{}).
		Where("group_instructor_group_id = ? AND group_instructor_instructor_id = ?",
			group.StudentGroupID, instructorID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return m.DB.Create(&model.GroupInstructor{
		GroupInstructorGroupID:      group.StudentGroupID,
		GroupInstructorInstructorID: instructorID,
	}).Error
}

// ProgramByName resolves a program or reports NotFound.
func (m *RosterManager) ProgramByName(name string) (*model.Program, error) {
	var program model.Program
	err := m.DB.Where("program_name = ?", name).First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("program %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// CurrentYear returns the academic year flagged current.
func (m *RosterManager) CurrentYear() (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := m.DB.Where("academic_year_is_current = ?", true).First(&year).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no current academic year is configured")
	}
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// FirstTerm returns the year's earliest term, or nil when no terms exist.
func (m *RosterManager) FirstTerm(yearID uuid.UUID) (*model.AcademicTerm, error) {
	var term model.AcademicTerm
	err := m.DB.Where("academic_term_year_id = ?", yearID).
		Order("academic_term_start_date ASC").
		First(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &term, nil
}
