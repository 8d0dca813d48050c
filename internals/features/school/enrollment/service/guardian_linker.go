// file: internals/features/school/enrollment/service/guardian_linker.go
package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alummah_backend/internals/configs"
	"alummah_backend/internals/constants"
	"alummah_backend/internals/features/school/enrollment/dto"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	accountModel "alummah_backend/internals/features/users/account/model"
	accountService "alummah_backend/internals/features/users/account/service"
	"alummah_backend/internals/helpers/apperr"
)

// GuardianLinker resolves or creates a guardian by phone number and links
// it to a student. The same guardian is shared across siblings, and an
// existing account (say a staff member who is also a parent) is promoted
// with the guardian role instead of duplicated.
type GuardianLinker struct {
	DB        *gorm.DB
	Allocator *accountService.IdentityAllocator
	Detector  *DuplicateDetector
}

func NewGuardianLinker(db *gorm.DB, alloc *accountService.IdentityAllocator) *GuardianLinker {
	return &GuardianLinker{DB: db, Allocator: alloc, Detector: NewDuplicateDetector(db)}
}

// Link attaches the guardian described by info to the student. The phone
// number is the resolution key; linking twice is a no-op.
func (g *GuardianLinker) Link(studentID uuid.UUID, info dto.GuardianInfo) (*dto.LinkResult, error) {
	name := strings.TrimSpace(info.Name)
	phone := strings.TrimSpace(info.Phone)
	if name == "" || phone == "" {
		return nil, apperr.Validation("guardian name and phone are required")
	}

	var student enrollmodel.Student
	err := g.DB.Where("student_id = ?", studentID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("student %s not found", studentID)
	}
	if err != nil {
		return nil, err
	}

	result := &dto.LinkResult{}

	guardian, err := g.guardianByPhone(phone)
	if err != nil {
		return nil, err
	}
	if guardian == nil {
		guardian, err = g.createGuardian(name, phone, info, student.StudentLastName, result)
		if err != nil {
			return nil, err
		}
	}
	result.GuardianID = guardian.GuardianID
	result.AccountID = guardian.GuardianAccountID

	// Idempotent link
	var linked int64
	err = g.DB.Model(&enrollmodel.StudentGuardian{}).
		Where("student_guardian_student_id = ? AND student_guardian_guardian_id = ?",
			studentID, guardian.GuardianID).
		Count(&linked).Error
	if err != nil {
		return nil, err
	}
	if linked > 0 {
		result.AlreadyLinked = true
		return result, nil
	}

	link := enrollmodel.StudentGuardian{
		StudentGuardianStudentID:  studentID,
		StudentGuardianGuardianID: guardian.GuardianID,
		StudentGuardianRelation:   enrollmodel.CoerceRelation(info.Relation),
	}
	if err := g.DB.Create(&link).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (g *GuardianLinker) guardianByPhone(phone string) (*enrollmodel.Guardian, error) {
	var guardian enrollmodel.Guardian
	err := g.DB.Where("guardian_phone = ?", phone).First(&guardian).Error
	if err == nil {
		return &guardian, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// createGuardian reuses an account matched by phone or email (adding the
// guardian role) or creates a fresh one, then writes the guardian record.
func (g *GuardianLinker) createGuardian(name, phone string, info dto.GuardianInfo, studentLastName string, result *dto.LinkResult) (*enrollmodel.Guardian, error) {
	email := strings.TrimSpace(info.Email)

	account, err := g.Detector.FindAccountByContact(email, phone)
	if err != nil {
		return nil, err
	}
	if account != nil {
		if !account.HasRole(constants.RoleGuardian) {
			account.AddRole(constants.RoleGuardian)
			if err := g.DB.Model(account).
				Update("account_roles", account.AccountRoles).Error; err != nil {
				return nil, err
			}
		}
		if email == "" {
			email = account.AccountEmail
		}
	} else {
		if email == "" || !strings.Contains(email, "@") {
			allocated, err := g.Allocator.AllocateEmail(name, studentLastName, phone)
			if err != nil {
				return nil, err
			}
			email = allocated
		}
		first, rest := splitName(name)
		fresh := accountModel.Account{
			AccountEmail:       email,
			AccountPhone:       phone,
			AccountFirstName:   first,
			AccountLastName:    rest,
			AccountRoles:       []string{constants.RoleGuardian},
			AccountEnabled:     true,
			AccountDateOfBirth: parseDate(info.DateOfBirth),
		}
		if err := fresh.SetPassword(configs.DefaultPassword); err != nil {
			return nil, err
		}
		if err := g.DB.Create(&fresh).Error; err != nil {
			return nil, err
		}
		account = &fresh
		result.CreatedAccount = true
	}

	extra := datatypes.JSONMap{}
	if v := strings.TrimSpace(info.Occupation); v != "" {
		extra["occupation"] = v
	}
	if v := strings.TrimSpace(info.Designation); v != "" {
		extra["designation"] = v
	}
	if v := strings.TrimSpace(info.WorkAddress); v != "" {
		extra["work_address"] = v
	}
	if v := strings.TrimSpace(info.Education); v != "" {
		extra["education"] = v
	}
	if v := strings.TrimSpace(info.DateOfBirth); v != "" {
		extra["date_of_birth"] = v
	}

	guardian := enrollmodel.Guardian{
		GuardianAccountID: account.AccountID,
		GuardianName:      name,
		GuardianPhone:     phone,
		GuardianEmail:     email,
		GuardianExtra:     extra,
	}
	if err := g.DB.Create(&guardian).Error; err != nil {
		return nil, err
	}
	result.CreatedRecord = true
	return &guardian, nil
}

// splitName breaks a display name into first name + the rest.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
