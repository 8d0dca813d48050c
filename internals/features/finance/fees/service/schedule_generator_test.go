package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"alummah_backend/internals/features/finance/fees/dto"
	"alummah_backend/internals/features/finance/fees/model"
	academicmodel "alummah_backend/internals/features/school/academics/model"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	"alummah_backend/internals/helpers/apperr"
	"alummah_backend/internals/testdb"
)

type feeFixture struct {
	DB        *gorm.DB
	Year      academicmodel.AcademicYear
	Group     academicmodel.StudentGroup
	Structure model.FeeStructure
}

// newFeeFixture seeds a program, year, group and a 1200.00 structure
// split as Tuition 1000.00 + Transport 200.00 (paise).
func newFeeFixture(t *testing.T) *feeFixture {
	t.Helper()
	db := testdb.Open(t,
		&academicmodel.Program{},
		&academicmodel.AcademicYear{},
		&academicmodel.AcademicTerm{},
		&academicmodel.StudentGroup{},
		&academicmodel.StudentGroupMember{},
		&enrollmodel.ProgramEnrollment{},
		&model.FeeStructure{},
		&model.FeeComponent{},
		&model.FeeSchedule{},
		&model.FeeScheduleAllocation{},
		&model.Invoice{},
		&model.InvoiceLine{},
	)

	program := academicmodel.Program{ProgramName: "Grade 5"}
	require.NoError(t, db.Create(&program).Error)

	year := academicmodel.AcademicYear{
		AcademicYearName:      "2026-27",
		AcademicYearStartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2027, 4, 30, 0, 0, 0, 0, time.UTC),
		AcademicYearIsCurrent: true,
	}
	require.NoError(t, db.Create(&year).Error)

	group := academicmodel.StudentGroup{
		StudentGroupName:      "Grade 5 - A",
		StudentGroupProgramID: program.ProgramID,
		StudentGroupBatch:     "A",
		StudentGroupYearID:    year.AcademicYearID,
	}
	require.NoError(t, db.Create(&group).Error)

	structure := model.FeeStructure{
		FeeStructureProgramID:   program.ProgramID,
		FeeStructureYearID:      year.AcademicYearID,
		FeeStructureTotalAmount: 120000,
	}
	require.NoError(t, db.Create(&structure).Error)
	components := []model.FeeComponent{
		{FeeComponentStructureID: structure.FeeStructureID, FeeComponentCategory: "Tuition", FeeComponentAmount: 100000, FeeComponentIdx: 0},
		{FeeComponentStructureID: structure.FeeStructureID, FeeComponentCategory: "Transport", FeeComponentAmount: 20000, FeeComponentIdx: 1},
	}
	for i := range components {
		require.NoError(t, db.Create(&components[i]).Error)
	}
	structure.Components = components

	return &feeFixture{DB: db, Year: year, Group: group, Structure: structure}
}

// addStudent enrolls a student in the fixture year and puts them on the
// group roster.
func (f *feeFixture) addStudent(t *testing.T, roll int) uuid.UUID {
	t.Helper()
	studentID := uuid.New()

	require.NoError(t, f.DB.Create(&academicmodel.StudentGroupMember{
		MemberGroupID:     f.Group.StudentGroupID,
		MemberStudentID:   studentID,
		MemberStudentName: "Kid",
		MemberRollNumber:  roll,
		MemberActive:      true,
	}).Error)
	require.NoError(t, f.DB.Create(&enrollmodel.ProgramEnrollment{
		EnrollmentStudentID:      studentID,
		EnrollmentProgramID:      f.Group.StudentGroupProgramID,
		EnrollmentGroupID:        f.Group.StudentGroupID,
		EnrollmentAcademicYearID: f.Year.AcademicYearID,
		EnrollmentStatus:         enrollmodel.EnrollmentStatusActive,
	}).Error)
	return studentID
}

func TestGenerateQuarterlySchedules(t *testing.T) {
	f := newFeeFixture(t)
	g := NewScheduleGenerator(f.DB)

	result, err := g.Generate(dto.GenerateSchedulesRequest{
		StructureID: f.Structure.FeeStructureID,
		GroupIDs:    []uuid.UUID{f.Group.StudentGroupID},
		Plan:        model.PlanQuarterly,
	})
	require.NoError(t, err)
	require.Len(t, result.ScheduleIDs, 4)
	assert.Empty(t, result.Failed)

	var schedules []model.FeeSchedule
	require.NoError(t, f.DB.Preload("Allocations").
		Order("fee_schedule_period ASC").Find(&schedules).Error)
	require.Len(t, schedules, 4)

	for i, s := range schedules {
		assert.Equal(t, i+1, s.FeeSchedulePeriod)
		assert.Equal(t, model.ScheduleStatusFinalized, s.FeeScheduleStatus)
		assert.EqualValues(t, 30000, s.FeeScheduleTotalAmount)
		require.Len(t, s.Allocations, 2)
		assert.Equal(t, []uuid.UUID{f.Group.StudentGroupID}, []uuid.UUID(s.FeeScheduleTargetGroups))
	}
}

func TestGenerateRejectsPendingDuplicates(t *testing.T) {
	f := newFeeFixture(t)
	g := NewScheduleGenerator(f.DB)
	req := dto.GenerateSchedulesRequest{
		StructureID: f.Structure.FeeStructureID,
		GroupIDs:    []uuid.UUID{f.Group.StudentGroupID},
		Plan:        model.PlanQuarterly,
	}

	_, err := g.Generate(req)
	require.NoError(t, err)

	_, err = g.Generate(req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// A different plan for the same structure is fine.
	req.Plan = model.PlanAnnually
	_, err = g.Generate(req)
	require.NoError(t, err)
}

func TestGenerateValidations(t *testing.T) {
	f := newFeeFixture(t)
	g := NewScheduleGenerator(f.DB)

	t.Run("unknown plan", func(t *testing.T) {
		_, err := g.Generate(dto.GenerateSchedulesRequest{
			StructureID: f.Structure.FeeStructureID,
			GroupIDs:    []uuid.UUID{f.Group.StudentGroupID},
			Plan:        "Weekly",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("unknown structure", func(t *testing.T) {
		_, err := g.Generate(dto.GenerateSchedulesRequest{
			StructureID: uuid.New(),
			GroupIDs:    []uuid.UUID{f.Group.StudentGroupID},
			Plan:        model.PlanQuarterly,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := g.Generate(dto.GenerateSchedulesRequest{
			StructureID: f.Structure.FeeStructureID,
			GroupIDs:    []uuid.UUID{uuid.New()},
			Plan:        model.PlanQuarterly,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestGenerateRejectsInconsistentStructure(t *testing.T) {
	f := newFeeFixture(t)
	require.NoError(t, f.DB.Model(&model.FeeStructure{}).
		Where("fee_structure_id = ?", f.Structure.FeeStructureID).
		Update("fee_structure_total_amount", 999999).Error)

	g := NewScheduleGenerator(f.DB)
	_, err := g.Generate(dto.GenerateSchedulesRequest{
		StructureID: f.Structure.FeeStructureID,
		GroupIDs:    []uuid.UUID{f.Group.StudentGroupID},
		Plan:        model.PlanQuarterly,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindArithmetic))
}
