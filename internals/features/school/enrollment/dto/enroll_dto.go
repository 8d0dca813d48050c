// file: internals/features/school/enrollment/dto/enroll_dto.go
package dto

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

////////////////////////////////////////////////////////////////////////////////
// RAW ROWS (spreadsheet-shaped field bags; validated at the boundary)
////////////////////////////////////////////////////////////////////////////////

type GuardianInfo struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Relation    string `json:"relation,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	Designation string `json:"designation,omitempty"`
	WorkAddress string `json:"work_address,omitempty"`
	Education   string `json:"education,omitempty"`
}

func (g GuardianInfo) Present() bool {
	return strings.TrimSpace(g.Name) != "" && strings.TrimSpace(g.Phone) != ""
}

// StudentRow is one raw row of a batch upload. Roll number arrives as the
// spreadsheet string; SafeInt decides validity.
type StudentRow struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	GRNumber    string `json:"gr_number"`
	RollNo      string `json:"roll_no"`

	Guardian *GuardianInfo `json:"guardian,omitempty"`
}

func (r StudentRow) FullName() string {
	parts := []string{r.FirstName, r.MiddleName, r.LastName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, " ")
}

// SafeInt parses a roll-number cell; anything non-numeric sorts last and
// fails row validation.
func SafeInt(val string) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return -1
	}
	return n
}

// Valid: positive integer roll number and a non-empty GR number.
func (r StudentRow) Valid() bool {
	return SafeInt(r.RollNo) > 0 && strings.TrimSpace(r.GRNumber) != ""
}

type InstructorRow struct {
	FirstName     string `json:"first_name"`
	MiddleName    string `json:"middle_name,omitempty"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DeviceID      string `json:"attendance_device_id,omitempty"`
	Gender        string `json:"gender,omitempty"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	DateOfJoining string `json:"date_of_joining,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	Division      string `json:"division,omitempty"`
}

func (r InstructorRow) FullName() string {
	parts := []string{r.FirstName, r.MiddleName, r.LastName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, " ")
}

////////////////////////////////////////////////////////////////////////////////
// REQUESTS
////////////////////////////////////////////////////////////////////////////////

type BatchEnrollRequest struct {
	Program  string       `json:"program" validate:"required"`
	Division string       `json:"division" validate:"required"`
	Students []StudentRow `json:"students" validate:"required,min=1"`
}

type SingleEnrollRequest struct {
	Program  string     `json:"program" validate:"required"`
	Division string     `json:"division" validate:"required"`
	Student  StudentRow `json:"student" validate:"required"`
}

type InstructorBatchRequest struct {
	Instructors []InstructorRow `json:"instructors" validate:"required,min=1"`
}

////////////////////////////////////////////////////////////////////////////////
// RESULTS
////////////////////////////////////////////////////////////////////////////////

// PersonResult is one person's onboarding outcome.
type PersonResult struct {
	Success      bool       `json:"success"`
	AccountID    *uuid.UUID `json:"account_id,omitempty"`
	StudentID    *uuid.UUID `json:"student_id,omitempty"`
	InstructorID *uuid.UUID `json:"instructor_id,omitempty"`
	EnrollmentID *uuid.UUID `json:"enrollment_id,omitempty"`
	Error        string     `json:"error,omitempty"`
}

type RowResult struct {
	Email   string `json:"email,omitempty"`
	Status  string `json:"status"` // success | error
	Message string `json:"message"`
}

type FailedRow struct {
	Row   StudentRow `json:"student_data"`
	Error string     `json:"error"`
}

type FailedInstructorRow struct {
	Row   InstructorRow `json:"instructor_data"`
	Error string        `json:"error"`
}

type BatchSummary struct {
	TotalProcessed int `json:"total_processed"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
	AddedToGroup   int `json:"added_to_group"`
	SkippedInvalid int `json:"skipped_invalid"`
}

// BatchResult enumerates every row's outcome so an operator can fix and
// resubmit only the failed subset.
type BatchResult struct {
	Message     string               `json:"message"`
	Results     map[string]RowResult `json:"enrollment_results"`
	Enrolled    []string             `json:"enrolled_students"`
	FailedRows  []FailedRow          `json:"failed_enrollments"`
	Summary     BatchSummary         `json:"summary"`
	GroupID     uuid.UUID            `json:"group_id"`
	SavedRoster bool                 `json:"saved_roster"`
}

type InstructorBatchResult struct {
	Message    string                `json:"message"`
	Results    map[string]RowResult  `json:"enrollment_results"`
	Enrolled   []string              `json:"enrolled_instructors"`
	FailedRows []FailedInstructorRow `json:"failed_enrollments"`
	Summary    BatchSummary          `json:"summary"`
}

// LinkResult is the guardian linker outcome.
type LinkResult struct {
	GuardianID     uuid.UUID `json:"guardian_id"`
	AccountID      uuid.UUID `json:"account_id"`
	AlreadyLinked  bool      `json:"already_linked"`
	CreatedAccount bool      `json:"created_account"`
	CreatedRecord  bool      `json:"created_guardian"`
}
