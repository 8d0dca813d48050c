// file: internals/features/finance/fees/service/fanout.go
package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alummah_backend/internals/features/finance/fees/dto"
	"alummah_backend/internals/features/finance/fees/model"
	academicmodel "alummah_backend/internals/features/school/academics/model"
	enrollmodel "alummah_backend/internals/features/school/enrollment/model"
	"alummah_backend/internals/helpers/apperr"
)

// InvoiceFanout expands one finalized schedule into per-student invoices
// across its target groups. Each invoice is its own transaction; one
// student failing never blocks the rest, and re-running skips students
// already invoiced for the schedule.
type InvoiceFanout struct {
	DB *gorm.DB
}

func NewInvoiceFanout(db *gorm.DB) *InvoiceFanout {
	return &InvoiceFanout{DB: db}
}

func (f *InvoiceFanout) Run(scheduleID uuid.UUID, exceptions dto.Exceptions) (*dto.FanoutResult, error) {
	schedule, err := f.loadSchedule(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.FeeScheduleStatus != model.ScheduleStatusFinalized {
		return nil, apperr.Validation("schedule %s is %s; only finalized schedules can be invoiced",
			scheduleID, schedule.FeeScheduleStatus)
	}

	var structure model.FeeStructure
	err = f.DB.Where("fee_structure_id = ?", schedule.FeeScheduleStructureID).First(&structure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("fee structure %s not found", schedule.FeeScheduleStructureID)
	}
	if err != nil {
		return nil, err
	}

	if err := f.setStatus(schedule, model.ScheduleStatusInProcess, nil); err != nil {
		return nil, err
	}

	result := &dto.FanoutResult{ScheduleID: scheduleID}
	for _, groupID := range schedule.FeeScheduleTargetGroups {
		students, err := f.billableStudents(groupID, structure.FeeStructureYearID)
		if err != nil {
			msg := err.Error()
			if serr := f.setStatus(schedule, model.ScheduleStatusFailed, &msg); serr != nil {
				log.Printf("[FEES] could not record failure on schedule %s: %v", scheduleID, serr)
			}
			return nil, err
		}

		for _, studentID := range students {
			result.TotalStudents++
			excluded := exceptions.ExcludedFor(groupID, studentID)

			created, err := f.invoiceStudent(schedule, studentID, excluded)
			if err != nil {
				result.FailedStudents = append(result.FailedStudents, dto.StudentFailure{
					StudentID: studentID,
					Error:     err.Error(),
				})
				log.Printf("[FEES] invoice for student %s failed: %v", studentID, err)
				continue
			}
			if created == uuid.Nil {
				result.Skipped++
				continue
			}
			result.Invoiced++
			result.InvoiceIDs = append(result.InvoiceIDs, created)
		}
	}

	end := model.ScheduleStatusInvoiceCreated
	var errLog *string
	if len(result.FailedStudents) > 0 {
		msg := fmt.Sprintf("%d of %d students failed", len(result.FailedStudents), result.TotalStudents)
		errLog = &msg
	}
	if err := f.setStatus(schedule, end, errLog); err != nil {
		return nil, err
	}
	return result, nil
}

// invoiceStudent writes one invoice. Returns uuid.Nil without error when
// the student is skipped (already invoiced, or every category excluded).
func (f *InvoiceFanout) invoiceStudent(schedule *model.FeeSchedule, studentID uuid.UUID, excluded map[string]struct{}) (uuid.UUID, error) {
	var existing int64
	err := f.DB.Model(&model.Invoice{}).
		Where("invoice_schedule_id = ? AND invoice_student_id = ?", schedule.FeeScheduleID, studentID).
		Count(&existing).Error
	if err != nil {
		return uuid.Nil, err
	}
	if existing > 0 {
		return uuid.Nil, nil
	}

	lines := make([]model.InvoiceLine, 0, len(schedule.Allocations))
	var grand int64
	for _, alloc := range schedule.Allocations {
		if _, skip := excluded[alloc.AllocationCategory]; skip {
			continue
		}
		lines = append(lines, model.InvoiceLine{
			LineCategory: alloc.AllocationCategory,
			LineAmount:   alloc.AllocationAmount,
			LineIdx:      alloc.AllocationIdx,
		})
		grand += alloc.AllocationAmount
	}
	if len(lines) == 0 {
		return uuid.Nil, nil
	}

	invoice := model.Invoice{
		InvoiceScheduleID: schedule.FeeScheduleID,
		InvoiceStudentID:  studentID,
		InvoiceDueDate:    schedule.FeeScheduleDueDate,
		InvoiceGrandTotal: grand,
		InvoiceStatus:     model.InvoiceStatusDraft,
	}
	err = f.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].LineInvoiceID = invoice.InvoiceID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&invoice).Updates(map[string]interface{}{
			"invoice_status":      model.InvoiceStatusFinalized,
			"invoice_outstanding": grand,
		}).Error
	})
	if err != nil {
		return uuid.Nil, err
	}
	return invoice.InvoiceID, nil
}

// billableStudents lists the group's active roster members holding an
// active enrollment in the structure's year.
func (f *InvoiceFanout) billableStudents(groupID, yearID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := f.DB.Model(&academicmodel.StudentGroupMember{}).
		Joins("JOIN program_enrollments ON program_enrollments.enrollment_student_id = student_group_members.member_student_id").
		Where("student_group_members.member_group_id = ? AND student_group_members.member_active = ?", groupID, true).
		Where("program_enrollments.enrollment_academic_year_id = ? AND program_enrollments.enrollment_status = ?",
			yearID, enrollmodel.EnrollmentStatusActive).
		Distinct().
		Pluck("student_group_members.member_student_id", &ids).Error
	return ids, err
}

func (f *InvoiceFanout) loadSchedule(id uuid.UUID) (*model.FeeSchedule, error) {
	var schedule model.FeeSchedule
	err := f.DB.Preload("Allocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("allocation_idx ASC")
	}).Where("fee_schedule_id = ?", id).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("fee schedule %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (f *InvoiceFanout) setStatus(schedule *model.FeeSchedule, status model.FeeScheduleStatus, errLog *string) error {
	updates := map[string]interface{}{"fee_schedule_status": status}
	if errLog != nil {
		updates["fee_schedule_error_log"] = *errLog
	}
	if err := f.DB.Model(schedule).Updates(updates).Error; err != nil {
		return err
	}
	schedule.FeeScheduleStatus = status
	schedule.FeeScheduleErrorLog = errLog
	return nil
}

// GenerateWithInvoices chains schedule generation and immediate fan-out
// of every created schedule, the single-call path the setup screen uses.
func GenerateWithInvoices(db *gorm.DB, req dto.GenerateWithInvoicesRequest) (*dto.GenerateWithInvoicesResult, error) {
	gen, err := NewScheduleGenerator(db).Generate(req.GenerateSchedulesRequest)
	if err != nil {
		return nil, err
	}

	fanout := NewInvoiceFanout(db)
	out := &dto.GenerateWithInvoicesResult{Generate: *gen}
	for _, scheduleID := range gen.ScheduleIDs {
		res, err := fanout.Run(scheduleID, req.Exceptions)
		if err != nil {
			out.Invoices = append(out.Invoices, dto.FanoutResult{
				ScheduleID: scheduleID,
				FailedStudents: []dto.StudentFailure{
					{Error: err.Error()},
				},
			})
			log.Printf("[FEES] fan-out of schedule %s failed: %v", scheduleID, err)
			continue
		}
		out.Invoices = append(out.Invoices, *res)
	}
	return out, nil
}
