// file: internals/features/finance/fees/model/fee_structure_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Amounts across the finance feature are integer minor units (paise),
// so period splits reconstruct totals exactly.

// =========================================================
// FEE STRUCTURE
// =========================================================

// FeeStructure is the yearly fee definition for a program. Invariant:
// Σ component amounts = FeeStructureTotalAmount; checked before any
// schedule is generated from it.
type FeeStructure struct {
	// PK
	FeeStructureID uuid.UUID `gorm:"column:fee_structure_id;type:uuid;primaryKey" json:"fee_structure_id"`

	// FK → programs / academic_years
	FeeStructureProgramID uuid.UUID `gorm:"column:fee_structure_program_id;type:uuid;not null;index" json:"fee_structure_program_id"`
	FeeStructureYearID    uuid.UUID `gorm:"column:fee_structure_year_id;type:uuid;not null;index" json:"fee_structure_year_id"`

	FeeStructureTotalAmount int64 `gorm:"column:fee_structure_total_amount;not null;check:fee_structure_total_amount>=0" json:"fee_structure_total_amount"`

	Components []FeeComponent `gorm:"foreignKey:FeeComponentStructureID;references:FeeStructureID" json:"components"`

	// Timestamps
	FeeStructureCreatedAt time.Time      `gorm:"column:fee_structure_created_at;not null" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time      `gorm:"column:fee_structure_updated_at;not null" json:"fee_structure_updated_at"`
	FeeStructureDeletedAt gorm.DeletedAt `gorm:"column:fee_structure_deleted_at;index" json:"-"`
}

func (FeeStructure) TableName() string { return "fee_structures" }

func (m *FeeStructure) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	now := time.Now()
	if m.FeeStructureCreatedAt.IsZero() {
		m.FeeStructureCreatedAt = now
	}
	m.FeeStructureUpdatedAt = now
	return nil
}

func (m *FeeStructure) BeforeUpdate(tx *gorm.DB) (err error) {
	m.FeeStructureUpdatedAt = time.Now()
	return nil
}

// ComponentsTotal sums the component amounts for the invariant check.
func (m *FeeStructure) ComponentsTotal() int64 {
	var sum int64
	for _, c := range m.Components {
		sum += c.FeeComponentAmount
	}
	return sum
}

// =========================================================
// FEE COMPONENT
// =========================================================

type FeeComponent struct {
	// PK
	FeeComponentID uuid.UUID `gorm:"column:fee_component_id;type:uuid;primaryKey" json:"fee_component_id"`

	// FK → fee_structures(fee_structure_id)
	FeeComponentStructureID uuid.UUID `gorm:"column:fee_component_structure_id;type:uuid;not null;index" json:"fee_component_structure_id"`

	FeeComponentCategory string `gorm:"column:fee_component_category;type:varchar(60);not null" json:"fee_component_category"`
	FeeComponentAmount   int64  `gorm:"column:fee_component_amount;not null;check:fee_component_amount>=0" json:"fee_component_amount"`

	// Position within the structure, preserved into schedules and invoices
	FeeComponentIdx int `gorm:"column:fee_component_idx;not null;default:0" json:"fee_component_idx"`

	FeeComponentCreatedAt time.Time `gorm:"column:fee_component_created_at;not null" json:"fee_component_created_at"`
}

func (FeeComponent) TableName() string { return "fee_components" }

func (m *FeeComponent) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FeeComponentID == uuid.Nil {
		m.FeeComponentID = uuid.New()
	}
	if m.FeeComponentCreatedAt.IsZero() {
		m.FeeComponentCreatedAt = time.Now()
	}
	return nil
}
