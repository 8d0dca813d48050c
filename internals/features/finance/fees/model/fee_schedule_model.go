// file: internals/features/finance/fees/model/fee_schedule_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// ENUMS
// =========================================================

type FeePlan string

const (
	PlanMonthly      FeePlan = "Monthly"
	PlanQuarterly    FeePlan = "Quarterly"
	PlanSemiAnnually FeePlan = "Semi-Annually"
	PlanAnnually     FeePlan = "Annually"
	PlanTermWise     FeePlan = "Term-Wise"
)

func (p FeePlan) Valid() bool {
	switch p {
	case PlanMonthly, PlanQuarterly, PlanSemiAnnually, PlanAnnually, PlanTermWise:
		return true
	}
	return false
}

type FeeScheduleStatus string

const (
	ScheduleStatusDraft          FeeScheduleStatus = "draft"
	ScheduleStatusFinalized      FeeScheduleStatus = "finalized"
	ScheduleStatusInProcess      FeeScheduleStatus = "in_process"
	ScheduleStatusInvoiceCreated FeeScheduleStatus = "invoice_created"
	ScheduleStatusFailed         FeeScheduleStatus = "failed"
	ScheduleStatusCancelled      FeeScheduleStatus = "cancelled"
)

// =========================================================
// FEE SCHEDULE (one per billing period)
// =========================================================

// FeeSchedule is one billing period of a structure under a plan. Created
// draft, finalized before fan-out; the fan-out run leaves a status trail
// (in_process → invoice_created | failed).
type FeeSchedule struct {
	// PK
	FeeScheduleID uuid.UUID `gorm:"column:fee_schedule_id;type:uuid;primaryKey" json:"fee_schedule_id"`

	// FK → fee_structures(fee_structure_id)
	FeeScheduleStructureID uuid.UUID `gorm:"column:fee_schedule_structure_id;type:uuid;not null;index:ix_fee_schedule_structure" json:"fee_schedule_structure_id"`

	FeeSchedulePlan    FeePlan   `gorm:"column:fee_schedule_plan;type:varchar(20);not null" json:"fee_schedule_plan"`
	FeeSchedulePeriod  int       `gorm:"column:fee_schedule_period;not null" json:"fee_schedule_period"` // 1-based period index
	FeeScheduleDueDate time.Time `gorm:"column:fee_schedule_due_date;not null" json:"fee_schedule_due_date"`

	// Period total = Σ allocation amounts
	FeeScheduleTotalAmount int64 `gorm:"column:fee_schedule_total_amount;not null" json:"fee_schedule_total_amount"`

	// Target group id list (json array of uuids)
	FeeScheduleTargetGroups datatypes.JSONSlice[uuid.UUID] `gorm:"column:fee_schedule_target_groups" json:"fee_schedule_target_groups"`

	FeeScheduleStatus   FeeScheduleStatus `gorm:"column:fee_schedule_status;type:varchar(20);not null;default:'draft';index" json:"fee_schedule_status"`
	FeeScheduleErrorLog *string           `gorm:"column:fee_schedule_error_log" json:"fee_schedule_error_log,omitempty"`

	Allocations []FeeScheduleAllocation `gorm:"foreignKey:AllocationScheduleID;references:FeeScheduleID" json:"allocations"`

	// Timestamps
	FeeScheduleCreatedAt time.Time      `gorm:"column:fee_schedule_created_at;not null" json:"fee_schedule_created_at"`
	FeeScheduleUpdatedAt time.Time      `gorm:"column:fee_schedule_updated_at;not null" json:"fee_schedule_updated_at"`
	FeeScheduleDeletedAt gorm.DeletedAt `gorm:"column:fee_schedule_deleted_at;index" json:"-"`
}

func (FeeSchedule) TableName() string { return "fee_schedules" }

func (m *FeeSchedule) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FeeScheduleID == uuid.Nil {
		m.FeeScheduleID = uuid.New()
	}
	now := time.Now()
	if m.FeeScheduleCreatedAt.IsZero() {
		m.FeeScheduleCreatedAt = now
	}
	m.FeeScheduleUpdatedAt = now
	return nil
}

func (m *FeeSchedule) BeforeUpdate(tx *gorm.DB) (err error) {
	m.FeeScheduleUpdatedAt = time.Now()
	return nil
}

// =========================================================
// PER-COMPONENT ALLOCATION
// =========================================================

type FeeScheduleAllocation struct {
	// PK
	AllocationID uuid.UUID `gorm:"column:allocation_id;type:uuid;primaryKey" json:"allocation_id"`

	// FK → fee_schedules(fee_schedule_id)
	AllocationScheduleID uuid.UUID `gorm:"column:allocation_schedule_id;type:uuid;not null;index" json:"allocation_schedule_id"`

	AllocationCategory string `gorm:"column:allocation_category;type:varchar(60);not null" json:"allocation_category"`
	AllocationAmount   int64  `gorm:"column:allocation_amount;not null" json:"allocation_amount"`
	AllocationIdx      int    `gorm:"column:allocation_idx;not null;default:0" json:"allocation_idx"`

	AllocationCreatedAt time.Time `gorm:"column:allocation_created_at;not null" json:"allocation_created_at"`
}

func (FeeScheduleAllocation) TableName() string { return "fee_schedule_allocations" }

func (m *FeeScheduleAllocation) BeforeCreate(tx *gorm.DB) (err error) {
	if m.AllocationID == uuid.Nil {
		m.AllocationID = uuid.New()
	}
	if m.AllocationCreatedAt.IsZero() {
		m.AllocationCreatedAt = time.Now()
	}
	return nil
}
