// file: internals/features/school/enrollment/service/onboarder.go
package service

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alummah_backend/internals/constants"
	academicmodel "alummah_backend/internals/features/school/academics/model"
	"alummah_backend/internals/features/school/enrollment/dto"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	accountModel "alummah_backend/internals/features/users/account/model"
	accountService "alummah_backend/internals/features/users/account/service"
	"alummah_backend/internals/helpers/apperr"
)

// StudentOnboarder runs the account → student → enrollment creation chain
// for one row. Each completed step pushes an undo closure; a later step
// failing unwinds the earlier ones so a half-onboarded person never
// lingers in the database.
type StudentOnboarder struct {
	DB              *gorm.DB
	Allocator       *accountService.IdentityAllocator
	Detector        *DuplicateDetector
	Linker          *GuardianLinker
	DefaultPassword string
}

func NewStudentOnboarder(db *gorm.DB, alloc *accountService.IdentityAllocator, defaultPassword string) *StudentOnboarder {
	return &StudentOnboarder{
		DB:              db,
		Allocator:       alloc,
		Detector:        NewDuplicateDetector(db),
		Linker:          NewGuardianLinker(db, alloc),
		DefaultPassword: defaultPassword,
	}
}

// EnrollContext carries the batch-level targets resolved once per batch.
type EnrollContext struct {
	Program academicmodel.Program
	Year    academicmodel.AcademicYear
	GroupID uuid.UUID
	TermID  *uuid.UUID
}

// Onboard creates the full chain for one student row. On any failure the
// already-created records are removed, each undo error only logged.
func (o *StudentOnboarder) Onboard(row dto.StudentRow, ctx EnrollContext) (dto.PersonResult, error) {
	first := strings.TrimSpace(row.FirstName)
	middle := strings.TrimSpace(row.MiddleName)
	last := strings.TrimSpace(row.LastName)
	if first == "" {
		return fail("first name is required"), apperr.Validation("first name is required")
	}

	if c, err := o.Detector.FindStudentConflict(row.Email, row.Phone, row.GRNumber, first, middle, last); err != nil {
		return fail(err.Error()), err
	} else if c != nil {
		e := apperr.Conflict("%s", c.String())
		return fail(e.Error()), e
	}

	email := strings.TrimSpace(row.Email)
	if email == "" || !strings.Contains(email, "@") {
		allocated, err := o.Allocator.AllocateEmail(first, last, row.GRNumber)
		if err != nil {
			return fail(err.Error()), err
		}
		email = allocated
	}
	phone := strings.TrimSpace(row.Phone)
	if phone == "" {
		allocated, err := o.Allocator.AllocatePhone()
		if err != nil {
			return fail(err.Error()), err
		}
		phone = allocated
	}

	var undo []func() error

	unwind := func(cause error) (dto.PersonResult, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			if err := undo[i](); err != nil {
				log.Printf("[ENROLL] undo step failed for %s: %v", row.FullName(), err)
			}
		}
		e := apperr.Dependency(cause, "onboarding %s failed", row.FullName())
		return fail(e.Error()), e
	}

	// 1. account
	account := accountModel.Account{
		AccountEmail:       email,
		AccountPhone:       phone,
		AccountFirstName:   first,
		AccountMiddleName:  middle,
		AccountLastName:    last,
		AccountRoles:       []string{constants.RoleStudent},
		AccountEnabled:     true,
		AccountDateOfBirth: parseDate(row.DateOfBirth),
	}
	if err := account.SetPassword(o.DefaultPassword); err != nil {
		return fail(err.Error()), err
	}
	if err := o.DB.Create(&account).Error; err != nil {
		return unwind(err)
	}
	undo = append(undo, func() error {
		return o.DB.Unscoped().Delete(&accountModel.Account{}, "account_id = ?", account.AccountID).Error
	})

	// 2. student profile
	student := enrollmodel.Student{
		StudentAccountID:   account.AccountID,
		StudentFirstName:   first,
		StudentMiddleName:  middle,
		StudentLastName:    last,
		StudentEmail:       email,
		StudentPhone:       phone,
		StudentGRNumber:    strings.TrimSpace(row.GRNumber),
		StudentDateOfBirth: parseDate(row.DateOfBirth),
	}
	if err := o.DB.Create(&student).Error; err != nil {
		return unwind(err)
	}
	undo = append(undo, func() error {
		return o.DB.Unscoped().Delete(&enrollmodel.Student{}, "student_id = ?", student.StudentID).Error
	})

	// 3. program enrollment (one active per student/year/program)
	var active int64
	err := o.DB.Model(&enrollmodel.ProgramEnrollment{}).
		Where("enrollment_student_id = ? AND enrollment_academic_year_id = ? AND enrollment_program_id = ? AND enrollment_status = ?",
			student.StudentID, ctx.Year.AcademicYearID, ctx.Program.ProgramID, enrollmodel.EnrollmentStatusActive).
		Count(&active).Error
	if err != nil {
		return unwind(err)
	}
	if active > 0 {
		return unwind(apperr.Conflict("student already has an active enrollment in %s", ctx.Program.ProgramName))
	}

	enrollment := enrollmodel.ProgramEnrollment{
		EnrollmentStudentID:      student.StudentID,
		EnrollmentProgramID:      ctx.Program.ProgramID,
		EnrollmentGroupID:        ctx.GroupID,
		EnrollmentAcademicYearID: ctx.Year.AcademicYearID,
		EnrollmentTermID:         ctx.TermID,
		EnrollmentStatus:         enrollmodel.EnrollmentStatusActive,
	}
	if err := o.DB.Create(&enrollment).Error; err != nil {
		return unwind(err)
	}

	// Guardian link is best-effort; a bad guardian row never undoes the
	// student that was just enrolled.
	if row.Guardian != nil && row.Guardian.Present() {
		if _, err := o.Linker.Link(student.StudentID, *row.Guardian); err != nil {
			log.Printf("[ENROLL] guardian link failed for %s: %v", row.FullName(), err)
		}
	}

	return dto.PersonResult{
		Success:      true,
		AccountID:    &account.AccountID,
		StudentID:    &student.StudentID,
		EnrollmentID: &enrollment.EnrollmentID,
	}, nil
}

func fail(msg string) dto.PersonResult {
	return dto.PersonResult{Success: false, Error: msg}
}

// parseDate accepts the yyyy-mm-dd cells the upload sheet produces;
// anything else is treated as absent.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
