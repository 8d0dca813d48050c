// file: internals/features/finance/fees/dto/fee_dto.go
package dto

import (
	"github.com/google/uuid"

	feemodel "alummah_backend/internals/features/finance/fees/model"
)

////////////////////////////////////////////////////////////////////////////////
// REQUESTS
////////////////////////////////////////////////////////////////////////////////

// Exceptions maps group id → student id → excluded fee categories,
// the shape the setup frontend submits.
type Exceptions map[uuid.UUID]map[uuid.UUID][]string

// ExcludedFor flattens the per-group nesting for one student; a student
// listed under several groups gets the union.
func (e Exceptions) ExcludedFor(groupID, studentID uuid.UUID) map[string]struct{} {
	out := make(map[string]struct{})
	if byStudent, ok := e[groupID]; ok {
		for _, cat := range byStudent[studentID] {
			out[cat] = struct{}{}
		}
	}
	return out
}

type GenerateSchedulesRequest struct {
	StructureID uuid.UUID        `json:"fee_structure_id" validate:"required"`
	GroupIDs    []uuid.UUID      `json:"student_group_ids" validate:"required,min=1"`
	Plan        feemodel.FeePlan `json:"fee_plan" validate:"required"`
	DueDates    []string         `json:"due_dates,omitempty"` // RFC3339 date (2006-01-02)
}

type FanoutRequest struct {
	Exceptions Exceptions `json:"student_exceptions,omitempty"`
}

type GenerateWithInvoicesRequest struct {
	GenerateSchedulesRequest
	Exceptions Exceptions `json:"student_exceptions,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// RESULTS
////////////////////////////////////////////////////////////////////////////////

type ScheduleFailure struct {
	ScheduleID uuid.UUID `json:"fee_schedule_id"`
	Error      string    `json:"error"`
}

type GenerateResult struct {
	Plan        feemodel.FeePlan  `json:"fee_plan"`
	ScheduleIDs []uuid.UUID       `json:"fee_schedules"`
	Failed      []ScheduleFailure `json:"failed_schedules,omitempty"`
}

type StudentFailure struct {
	StudentID uuid.UUID `json:"student_id"`
	Error     string    `json:"error"`
}

type FanoutResult struct {
	ScheduleID     uuid.UUID        `json:"fee_schedule_id"`
	TotalStudents  int              `json:"total_students"`
	Invoiced       int              `json:"created_count"`
	Skipped        int              `json:"skipped_count"`
	InvoiceIDs     []uuid.UUID      `json:"submitted_invoices"`
	FailedStudents []StudentFailure `json:"failed_students,omitempty"`
}

type GenerateWithInvoicesResult struct {
	Generate GenerateResult `json:"schedules"`
	Invoices []FanoutResult `json:"invoice_results"`
}
