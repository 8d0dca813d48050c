package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"alummah_backend/internals/constants"
	academicmodel "alummah_backend/internals/features/school/academics/model"
	"alummah_backend/internals/features/school/enrollment/dto"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	accountModel "alummah_backend/internals/features/users/account/model"
	"alummah_backend/internals/testdb"
)

func newInstructorEnroller(t *testing.T) (*InstructorEnroller, *gorm.DB) {
	db := testdb.Open(t,
		&accountModel.Account{},
		&enrollmodel.Instructor{},
		&academicmodel.Program{},
		&academicmodel.AcademicYear{},
		&academicmodel.StudentGroup{},
		&academicmodel.GroupInstructor{},
	)
	return NewInstructorEnroller(db), db
}

func instructorRow(first, email, phone string) dto.InstructorRow {
	return dto.InstructorRow{
		FirstName: first,
		LastName:  "Ansari",
		Email:     email,
		Phone:     phone,
	}
}

func TestInstructorBatch(t *testing.T) {
	e, db := newInstructorEnroller(t)

	result, err := e.EnrollBatch(dto.InstructorBatchRequest{
		Instructors: []dto.InstructorRow{
			instructorRow("Fatima", "fatima@x.io", "9700000001"),
			instructorRow("Salim", "salim@x.io", "9700000002"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Successful)
	assert.Zero(t, result.Summary.Failed)

	var instructors int64
	require.NoError(t, db.Model(&enrollmodel.Instructor{}).Count(&instructors).Error)
	assert.EqualValues(t, 2, instructors)
}

func TestInstructorBatchRejectsDuplicateName(t *testing.T) {
	e, _ := newInstructorEnroller(t)

	first, err := e.EnrollBatch(dto.InstructorBatchRequest{
		Instructors: []dto.InstructorRow{instructorRow("Fatima", "fatima@x.io", "9700000001")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Summary.Successful)

	second, err := e.EnrollBatch(dto.InstructorBatchRequest{
		Instructors: []dto.InstructorRow{instructorRow("Fatima", "other@x.io", "9700000009")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Summary.Failed)
	require.Len(t, second.FailedRows, 1)
}

func TestInstructorBatchRequiresContact(t *testing.T) {
	e, _ := newInstructorEnroller(t)

	result, err := e.EnrollBatch(dto.InstructorBatchRequest{
		Instructors: []dto.InstructorRow{
			instructorRow("NoEmail", "", "9700000003"),
			instructorRow("BadEmail", "not-an-email", "9700000004"),
			instructorRow("NoPhone", "ok@x.io", ""),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Summary.Failed)
	assert.Zero(t, result.Summary.Successful)
}

func TestInstructorBatchReusesAccount(t *testing.T) {
	e, db := newInstructorEnroller(t)

	guardian := accountModel.Account{
		AccountEmail:     "parent@x.io",
		AccountPhone:     "9700000005",
		AccountFirstName: "Fatima",
		AccountLastName:  "Ansari",
		AccountRoles:     []string{constants.RoleGuardian},
		AccountEnabled:   true,
	}
	require.NoError(t, guardian.SetPassword("x"))
	require.NoError(t, db.Create(&guardian).Error)

	result, err := e.EnrollBatch(dto.InstructorBatchRequest{
		Instructors: []dto.InstructorRow{instructorRow("Fatima", "parent@x.io", "9700000005")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Successful)

	var accounts int64
	require.NoError(t, db.Model(&accountModel.Account{}).Count(&accounts).Error)
	assert.EqualValues(t, 1, accounts)

	var reloaded accountModel.Account
	require.NoError(t, db.First(&reloaded, "account_id = ?", guardian.AccountID).Error)
	assert.True(t, reloaded.HasRole(constants.RoleInstructor))

	var instructor enrollmodel.Instructor
	require.NoError(t, db.First(&instructor, "instructor_account_id = ?", guardian.AccountID).Error)
}

func TestInstructorBatchAttachesDivision(t *testing.T) {
	e, db := newInstructorEnroller(t)

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

	row := instructorRow("Fatima", "fatima@x.io", "9700000006")
	row.Division = "A"
	result, err := e.EnrollBatch(dto.InstructorBatchRequest{Instructors: []dto.InstructorRow{row}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Successful)

	var attached int64
	require.NoError(t, db.Model(&academicmodel.GroupInstructor{}).
		Where("group_instructor_group_id = ?", group.StudentGroupID).Count(&attached).Error)
	assert.EqualValues(t, 1, attached)
}
