package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"alummah_backend/internals/features/school/academics/model"
	"alummah_backend/internals/helpers/apperr"
	"alummah_backend/internals/testdb"
)

func newRosterManager(t *testing.T) (*RosterManager, *gorm.DB) {
	db := testdb.Open(t,
		&model.Program{},
		&model.AcademicYear{},
		&model.AcademicTerm{},
		&model.StudentGroup{},
		&model.StudentGroupMember{},
		&model.GroupInstructor{},
	)
	return NewRosterManager(db), db
}

func seedGroup(t *testing.T, db *gorm.DB) model.StudentGroup {
	t.Helper()

	program := model.Program{ProgramName: "Grade 5"}
	require.NoError(t, db.Create(&program).Error)

	year := model.AcademicYear{
		AcademicYearName:      "2026-27",
		AcademicYearStartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2027, 4, 30, 0, 0, 0, 0, time.UTC),
		AcademicYearIsCurrent: true,
	}
	require.NoError(t, db.Create(&year).Error)

	group := model.StudentGroup{
		StudentGroupName:      "Grade 5 - A",
		StudentGroupProgramID: program.ProgramID,
		StudentGroupBatch:     "A",
		StudentGroupYearID:    year.AcademicYearID,
	}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func TestRosterNextRollStartsAfterMax(t *testing.T) {
	m, db := newRosterManager(t)
	group := seedGroup(t, db)

	require.NoError(t, db.Create(&model.StudentGroupMember{
		MemberGroupID:     group.StudentGroupID,
		MemberStudentID:   uuid.New(),
		MemberStudentName: "Existing Kid",
		MemberRollNumber:  7,
		MemberActive:      true,
	}).Error)

	roster, err := m.Load("Grade 5", "A")
	require.NoError(t, err)
	assert.Equal(t, 8, roster.NextRoll())
}

func TestRosterStageIsIdempotentPerStudent(t *testing.T) {
	m, db := newRosterManager(t)
	seedGroup(t, db)

	roster, err := m.Load("Grade 5", "A")
	require.NoError(t, err)

	id := uuid.New()
	roll, added := roster.Stage(id, "Ahmed Shaikh")
	assert.True(t, added)
	assert.Equal(t, 1, roll)

	_, again := roster.Stage(id, "Ahmed Shaikh")
	assert.False(t, again)
	assert.Equal(t, 1, roster.StagedCount())
}

func TestRosterSaveBumpsVersion(t *testing.T) {
	m, db := newRosterManager(t)
	group := seedGroup(t, db)

	roster, err := m.Load("Grade 5", "A")
	require.NoError(t, err)
	roster.Stage(uuid.New(), "Ahmed Shaikh")
	require.NoError(t, m.Save(roster))

	var reloaded model.StudentGroup
	require.NoError(t, db.First(&reloaded, "student_group_id = ?", group.StudentGroupID).Error)
	assert.Equal(t, 1, reloaded.StudentGroupVersion)
	assert.Zero(t, roster.StagedCount())
}

func TestRosterConcurrentSaveConflicts(t *testing.T) {
	m, db := newRosterManager(t)
	seedGroup(t, db)

	first, err := m.Load("Grade 5", "A")
	require.NoError(t, err)
	second, err := m.Load("Grade 5", "A")
	require.NoError(t, err)

	first.Stage(uuid.New(), "Ahmed Shaikh")
	require.NoError(t, m.Save(first))

	second.Stage(uuid.New(), "Bilal Shaikh")
	err = m.Save(second)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// The losing batch wrote nothing.
	var members int64
	require.NoError(t, db.Model(&model.StudentGroupMember{}).Count(&members).Error)
	assert.EqualValues(t, 1, members)
}

func TestRosterSaveWithoutStagedIsNoop(t *testing.T) {
	m, db := newRosterManager(t)
	group := seedGroup(t, db)

	roster, err := m.Load("Grade 5", "A")
	require.NoError(t, err)
	require.NoError(t, m.Save(roster))

	var reloaded model.StudentGroup
	require.NoError(t, db.First(&reloaded, "student_group_id = ?", group.StudentGroupID).Error)
	assert.Zero(t, reloaded.StudentGroupVersion)
}

func TestRosterLoadUnknownTargets(t *testing.T) {
	m, db := newRosterManager(t)
	seedGroup(t, db)

	_, err := m.Load("Grade 99", "A")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = m.Load("Grade 5", "Z")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
