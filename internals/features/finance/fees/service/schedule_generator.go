// file: internals/features/finance/fees/service/schedule_generator.go
package service

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alummah_backend/internals/features/finance/fees/dto"
	"alummah_backend/internals/features/finance/fees/model"
	academicmodel "alummah_backend/internals/features/school/academics/model"
	"alummah_backend/internals/helpers/apperr"
)

// ScheduleGenerator turns a fee structure plus a plan into one finalized
// schedule per billing period, each carrying per-category allocations and
// the target group list for the later invoice fan-out.
type ScheduleGenerator struct {
	DB *gorm.DB
}

func NewScheduleGenerator(db *gorm.DB) *ScheduleGenerator {
	return &ScheduleGenerator{DB: db}
}

func (g *ScheduleGenerator) Generate(req dto.GenerateSchedulesRequest) (*dto.GenerateResult, error) {
	if !req.Plan.Valid() {
		return nil, apperr.Validation("unknown fee plan %q", req.Plan)
	}

	structure, err := g.loadStructure(req.StructureID)
	if err != nil {
		return nil, err
	}
	if structure.ComponentsTotal() != structure.FeeStructureTotalAmount {
		return nil, apperr.Arithmetic("structure components sum to %d but total is %d",
			structure.ComponentsTotal(), structure.FeeStructureTotalAmount)
	}
	if err := g.ensureGroupsExist(req.GroupIDs); err != nil {
		return nil, err
	}

	// Re-running generation for the same structure and plan while earlier
	// drafts are still pending would double-bill on fan-out.
	var pending int64
	err = g.DB.Model(&model.FeeSchedule{}).
		Where("fee_schedule_structure_id = ? AND fee_schedule_plan = ? AND fee_schedule_status IN ?",
			req.StructureID, req.Plan,
			[]model.FeeScheduleStatus{model.ScheduleStatusDraft, model.ScheduleStatusFinalized}).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, apperr.Conflict("%d pending schedules already exist for this structure and plan; cancel them first", pending)
	}

	var year academicmodel.AcademicYear
	err = g.DB.Where("academic_year_id = ?", structure.FeeStructureYearID).First(&year).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("academic year %s not found", structure.FeeStructureYearID)
	}
	if err != nil {
		return nil, err
	}
	var terms []academicmodel.AcademicTerm
	if err := g.DB.Where("academic_term_year_id = ?", year.AcademicYearID).
		Order("academic_term_start_date ASC").
		Find(&terms).Error; err != nil {
		return nil, err
	}

	dist, err := Distribute(*structure, req.Plan, req.DueDates, year, terms)
	if err != nil {
		return nil, err
	}

	result := &dto.GenerateResult{Plan: req.Plan}
	for _, period := range dist.Periods {
		schedule := model.FeeSchedule{
			FeeScheduleStructureID:  structure.FeeStructureID,
			FeeSchedulePlan:         req.Plan,
			FeeSchedulePeriod:       period.Index,
			FeeScheduleDueDate:      period.DueDate,
			FeeScheduleTotalAmount:  period.Total,
			FeeScheduleTargetGroups: req.GroupIDs,
			FeeScheduleStatus:       model.ScheduleStatusDraft,
		}
		err := g.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&schedule).Error; err != nil {
				return err
			}
			for _, alloc := range period.Allocations {
				row := model.FeeScheduleAllocation{
					AllocationScheduleID: schedule.FeeScheduleID,
					AllocationCategory:   alloc.Category,
					AllocationAmount:     alloc.Amount,
					AllocationIdx:        alloc.Idx,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			return tx.Model(&schedule).
				Update("fee_schedule_status", model.ScheduleStatusFinalized).Error
		})
		if err != nil {
			log.Printf("[FEES] period %d of %s failed: %v", period.Index, req.Plan, err)
			result.Failed = append(result.Failed, dto.ScheduleFailure{
				ScheduleID: schedule.FeeScheduleID,
				Error:      err.Error(),
			})
			continue
		}
		result.ScheduleIDs = append(result.ScheduleIDs, schedule.FeeScheduleID)
	}
	return result, nil
}

func (g *ScheduleGenerator) loadStructure(id uuid.UUID) (*model.FeeStructure, error) {
	var structure model.FeeStructure
	err := g.DB.Preload("Components", func(db *gorm.DB) *gorm.DB {
		return db.Order("fee_component_idx ASC")
	}).Where("fee_structure_id = ?", id).First(&structure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("fee structure %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if len(structure.Components) == 0 {
		return nil, apperr.Validation("fee structure %s has no components", id)
	}
	return &structure, nil
}

func (g *ScheduleGenerator) ensureGroupsExist(ids []uuid.UUID) error {
	var n int64
	err := g.DB.Model(&academicmodel.StudentGroup{}).
		Where("student_group_id IN ?", ids).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return apperr.NotFound("one or more target student groups do not exist")
	}
	return nil
}
