// file: internals/features/school/enrollment/service/duplicate_detector.go
package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alummah_backend/internals/constants"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	accountModel "alummah_backend/internals/features/users/account/model"
)

// Conflict names the first identity dimension on which a candidate row
// collides with an existing record.
type Conflict struct {
	Field    string    `json:"field"`  // email | phone | gr_number | device_id | full_name
	Entity   string    `json:"entity"` // account | student | instructor
	EntityID uuid.UUID `json:"entity_id"`
	Value    string    `json:"value"`
}

func (c *Conflict) String() string {
	return "duplicate " + c.Field + " (" + c.Value + ") on existing " + c.Entity
}

// DuplicateDetector runs the ordered duplicate probes. Pure reads; the
// caller decides whether to skip, merge or reject.
type DuplicateDetector struct {
	DB *gorm.DB
}

func NewDuplicateDetector(db *gorm.DB) *DuplicateDetector {
	return &DuplicateDetector{DB: db}
}

// FindStudentConflict checks, in order: account by email, account by
// phone, student by GR number, student by exact full name (the "same
// person re-submitted" case). First hit wins.
func (d *DuplicateDetector) FindStudentConflict(email, phone, grNumber string, first, middle, last string) (*Conflict, error) {
	if c, err := d.accountBy("account_email", "email", email); c != nil || err != nil {
		return c, err
	}
	if c, err := d.accountBy("account_phone", "phone", phone); c != nil || err != nil {
		return c, err
	}

	if gr := strings.TrimSpace(grNumber); gr != "" {
		var st enrollmodel.Student
		err := d.DB.Where("student_gr_number = ?", gr).First(&st).Error
		if err == nil {
			return &Conflict{Field: "gr_number", Entity: "student", EntityID: st.StudentID, Value: gr}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var st enrollmodel.Student
	err := d.DB.Where(
		"student_first_name = ? AND student_middle_name = ? AND student_last_name = ?",
		strings.TrimSpace(first), strings.TrimSpace(middle), strings.TrimSpace(last),
	).First(&st).Error
	if err == nil {
		return &Conflict{Field: "full_name", Entity: "student", EntityID: st.StudentID, Value: st.FullName()}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, nil
}

// FindInstructorConflict checks: instructor by exact full name, account by
// email carrying the instructor role, account by phone carrying the role,
// instructor by attendance-device id.
func (d *DuplicateDetector) FindInstructorConflict(first, middle, last, email, phone, deviceID string) (*Conflict, error) {
	var ins enrollmodel.Instructor
	err := d.DB.Where(
		"instructor_first_name = ? AND instructor_middle_name = ? AND instructor_last_name = ?",
		strings.TrimSpace(first), strings.TrimSpace(middle), strings.TrimSpace(last),
	).First(&ins).Error
	if err == nil {
		return &Conflict{Field: "full_name", Entity: "instructor", EntityID: ins.InstructorID, Value: ins.FullName()}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if c, err := d.accountWithRole("account_email", "email", email, constants.RoleInstructor); c != nil || err != nil {
		return c, err
	}
	if c, err := d.accountWithRole("account_phone", "phone", phone, constants.RoleInstructor); c != nil || err != nil {
		return c, err
	}

	if id := strings.TrimSpace(deviceID); id != "" {
		var byDevice enrollmodel.Instructor
		err := d.DB.Where("instructor_device_id = ?", id).First(&byDevice).Error
		if err == nil {
			return &Conflict{Field: "device_id", Entity: "instructor", EntityID: byDevice.InstructorID, Value: id}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

func (d *DuplicateDetector) accountBy(column, field, value string) (*Conflict, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	var acc accountModel.Account
	err := d.DB.Where(column+" = ?", v).First(&acc).Error
	if err == nil {
		return &Conflict{Field: field, Entity: "account", EntityID: acc.AccountID, Value: v}, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// accountWithRole only reports a conflict when the matched account already
// carries the given role; a bare account match means the account can be
// reused for the new profile.
func (d *DuplicateDetector) accountWithRole(column, field, value, role string) (*Conflict, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	var acc accountModel.Account
	err := d.DB.Where(column+" = ?", v).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if acc.HasRole(role) {
		return &Conflict{Field: field, Entity: "account", EntityID: acc.AccountID, Value: v}, nil
	}
	return nil, nil
}

// FindAccountByContact resolves an existing account by email or phone for
// reuse (instructor re-onboarding, guardian promotion).
func (d *DuplicateDetector) FindAccountByContact(email, phone string) (*accountModel.Account, error) {
	probes := []struct{ column, value string }{
		{"account_email", strings.TrimSpace(email)},
		{"account_phone", strings.TrimSpace(phone)},
	}
	for _, p := range probes {
		column, value := p.column, p.value
		if value == "" {
			continue
		}
		var acc accountModel.Account
		err := d.DB.Where(column+" = ?", value).First(&acc).Error
		if err == nil {
			return &acc, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}
