package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alummah_backend/internals/constants"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	accountModel "alummah_backend/internals/features/users/account/model"
	"alummah_backend/internals/testdb"
)

func newDetector(t *testing.T) *DuplicateDetector {
	db := testdb.Open(t, &accountModel.Account{}, &enrollmodel.Student{}, &enrollmodel.Instructor{})
	return NewDuplicateDetector(db)
}

func mustCreateAccount(t *testing.T, d *DuplicateDetector, email, phone string, roles ...string) accountModel.Account {
	t.Helper()
	acc := accountModel.Account{
		AccountEmail:     email,
		AccountPhone:     phone,
		AccountFirstName: "Existing",
		AccountRoles:     roles,
		AccountEnabled:   true,
	}
	require.NoError(t, acc.SetPassword("x"))
	require.NoError(t, d.DB.Create(&acc).Error)
	return acc
}

func TestFindStudentConflict(t *testing.T) {
	t.Run("clean row has no conflict", func(t *testing.T) {
		d := newDetector(t)
		c, err := d.FindStudentConflict("new@x.io", "9111111111", "GR1", "New", "", "Kid")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("email wins over later probes", func(t *testing.T) {
		d := newDetector(t)
		mustCreateAccount(t, d, "dup@x.io", "9222222222", constants.RoleStudent)
		c, err := d.FindStudentConflict("dup@x.io", "9222222222", "GR1", "A", "", "B")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "email", c.Field)
		assert.Equal(t, "account", c.Entity)
	})

	t.Run("gr number", func(t *testing.T) {
		d := newDetector(t)
		acc := mustCreateAccount(t, d, "kid@x.io", "9333333333", constants.RoleStudent)
		require.NoError(t, d.DB.Create(&enrollmodel.Student{
			StudentAccountID: acc.AccountID,
			StudentFirstName: "Kid",
			StudentEmail:     "kid@x.io",
			StudentGRNumber:  "GR42",
		}).Error)

		c, err := d.FindStudentConflict("other@x.io", "", "GR42", "Other", "", "Name")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "gr_number", c.Field)
		assert.Equal(t, "student", c.Entity)
	})

	t.Run("exact full name", func(t *testing.T) {
		d := newDetector(t)
		acc := mustCreateAccount(t, d, "kid@x.io", "9333333334", constants.RoleStudent)
		require.NoError(t, d.DB.Create(&enrollmodel.Student{
			StudentAccountID:  acc.AccountID,
			StudentFirstName:  "Zaid",
			StudentMiddleName: "Ahmed",
			StudentLastName:   "Sayed",
			StudentEmail:      "kid@x.io",
			StudentGRNumber:   "GR5",
		}).Error)

		c, err := d.FindStudentConflict("", "", "GR6", "Zaid", "Ahmed", "Sayed")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "full_name", c.Field)
	})
}

func TestFindInstructorConflict(t *testing.T) {
	t.Run("account without instructor role is reusable", func(t *testing.T) {
		d := newDetector(t)
		mustCreateAccount(t, d, "parent@x.io", "9444444444", constants.RoleGuardian)
		c, err := d.FindInstructorConflict("Fatima", "", "Ansari", "parent@x.io", "9444444444", "")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("account already carrying the role conflicts", func(t *testing.T) {
		d := newDetector(t)
		mustCreateAccount(t, d, "staff@x.io", "9555555555", constants.RoleInstructor)
		c, err := d.FindInstructorConflict("Fatima", "", "Ansari", "staff@x.io", "", "")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "email", c.Field)
	})

	t.Run("device id", func(t *testing.T) {
		d := newDetector(t)
		acc := mustCreateAccount(t, d, "staff@x.io", "9555555556", constants.RoleInstructor)
		device := "DEV-9"
		require.NoError(t, d.DB.Create(&enrollmodel.Instructor{
			InstructorAccountID: acc.AccountID,
			InstructorFirstName: "Salim",
			InstructorEmail:     "staff@x.io",
			InstructorPhone:     "9555555556",
			InstructorDeviceID:  &device,
			InstructorStatus:    enrollmodel.InstructorStatusActive,
		}).Error)

		c, err := d.FindInstructorConflict("Someone", "", "Else", "new@x.io", "9666666666", "DEV-9")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "device_id", c.Field)
	})
}

func TestFindAccountByContactPrefersEmail(t *testing.T) {
	d := newDetector(t)
	byEmail := mustCreateAccount(t, d, "first@x.io", "9100000001", constants.RoleGuardian)
	mustCreateAccount(t, d, "second@x.io", "9100000002", constants.RoleGuardian)

	got, err := d.FindAccountByContact("first@x.io", "9100000002")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, byEmail.AccountID, got.AccountID)
}
