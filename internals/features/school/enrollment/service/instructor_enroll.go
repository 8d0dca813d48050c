// file: internals/features/school/enrollment/service/instructor_enroll.go
package service

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"alummah_backend/internals/configs"
	"alummah_backend/internals/constants"
	academicService "alummah_backend/internals/features/school/academics/service"
	"alummah_backend/internals/features/school/enrollment/dto"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	accountModel "alummah_backend/internals/features/users/account/model"
	"alummah_backend/internals/helpers/apperr"
)

// InstructorEnroller onboards staff in bulk. Unlike students, instructors
// must arrive with both email and phone; an existing account matched by
// either is promoted with the instructor role instead of duplicated.
type InstructorEnroller struct {
	DB       *gorm.DB
	Detector *DuplicateDetector
	Roster   *academicService.RosterManager
}

func NewInstructorEnroller(db *gorm.DB) *InstructorEnroller {
	return &InstructorEnroller{
		DB:       db,
		Detector: NewDuplicateDetector(db),
		Roster:   academicService.NewRosterManager(db),
	}
}

func (e *InstructorEnroller) EnrollBatch(req dto.InstructorBatchRequest) (*dto.InstructorBatchResult, error) {
	result := &dto.InstructorBatchResult{
		Results: make(map[string]dto.RowResult),
	}

	for _, row := range req.Instructors {
		result.Summary.TotalProcessed++
		name := row.FullName()

		if err := e.enrollOne(row); err != nil {
			result.Summary.Failed++
			result.Results[name] = dto.RowResult{Email: row.Email, Status: "error", Message: err.Error()}
			result.FailedRows = append(result.FailedRows, dto.FailedInstructorRow{Row: row, Error: err.Error()})
			log.Printf("[ENROLL] instructor %s failed: %v", name, err)
			continue
		}
		result.Summary.Successful++
		result.Enrolled = append(result.Enrolled, name)
		result.Results[name] = dto.RowResult{Email: row.Email, Status: "success", Message: "enrolled"}
	}

	result.Message = fmt.Sprintf("instructor batch complete: %d enrolled, %d failed",
		result.Summary.Successful, result.Summary.Failed)
	return result, nil
}

func (e *InstructorEnroller) enrollOne(row dto.InstructorRow) error {
	first := strings.TrimSpace(row.FirstName)
	middle := strings.TrimSpace(row.MiddleName)
	last := strings.TrimSpace(row.LastName)
	email := strings.TrimSpace(row.Email)
	phone := strings.TrimSpace(row.Phone)

	if first == "" {
		return apperr.Validation("first name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Validation("a valid email is required")
	}
	if phone == "" {
		return apperr.Validation("phone is required")
	}

	if c, err := e.Detector.FindInstructorConflict(first, middle, last, email, phone, row.DeviceID); err != nil {
		return err
	} else if c != nil {
		return apperr.Conflict("%s", c.String())
	}

	// Reuse an existing account (a guardian who also teaches, say) rather
	// than tripping over the unique email/phone.
	account, err := e.Detector.FindAccountByContact(email, phone)
	if err != nil {
		return err
	}
	if account != nil {
		if !account.HasRole(constants.RoleInstructor) {
			account.AddRole(constants.RoleInstructor)
			if err := e.DB.Model(account).
				Update("account_roles", account.AccountRoles).Error; err != nil {
				return err
			}
		}
	} else {
		fresh := accountModel.Account{
			AccountEmail:       email,
			AccountPhone:       phone,
			AccountFirstName:   first,
			AccountMiddleName:  middle,
			AccountLastName:    last,
			AccountRoles:       []string{constants.RoleInstructor},
			AccountEnabled:     true,
			AccountDateOfBirth: parseDate(row.DateOfBirth),
		}
		if err := fresh.SetPassword(configs.DefaultPassword); err != nil {
			return err
		}
		if err := e.DB.Create(&fresh).Error; err != nil {
			return err
		}
		account = &fresh
	}

	instructor := enrollmodel.Instructor{
		InstructorAccountID:     account.AccountID,
		InstructorFirstName:     first,
		InstructorMiddleName:    middle,
		InstructorLastName:      last,
		InstructorEmail:         email,
		InstructorPhone:         phone,
		InstructorGender:        strings.TrimSpace(row.Gender),
		InstructorQualification: strings.TrimSpace(row.Qualification),
		InstructorDateOfBirth:   parseDate(row.DateOfBirth),
		InstructorDateOfJoining: parseDate(row.DateOfJoining),
		InstructorStatus:        enrollmodel.InstructorStatusActive,
	}
	if id := strings.TrimSpace(row.DeviceID); id != "" {
		instructor.InstructorDeviceID = &id
	}
	if err := e.DB.Create(&instructor).Error; err != nil {
		return err
	}

	// Division attachment is best-effort; an unknown division name is not
	// worth failing the whole row over.
	if div := strings.TrimSpace(row.Division); div != "" {
		if err := e.Roster.AttachInstructor(div, instructor.InstructorID); err != nil {
			log.Printf("[ENROLL] could not attach instructor %s to division %q: %v", instructor.FullName(), div, err)
		}
	}
	return nil
}
