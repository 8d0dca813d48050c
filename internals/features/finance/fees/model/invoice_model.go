// file: internals/features/finance/fees/model/invoice_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM: invoice status
// =========================================================

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusFinalized InvoiceStatus = "finalized"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// =========================================================
// INVOICE
// =========================================================

// Invoice is one student's bill for one schedule period. Grand total is
// always the sum of its lines; once finalized the lines are immutable
// (payment collaborators only touch status and outstanding).
type Invoice struct {
	// PK
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`

	// FK (one invoice per student per schedule)
	InvoiceScheduleID uuid.UUID `gorm:"column:invoice_schedule_id;type:uuid;not null;uniqueIndex:uniq_invoice_schedule_student,priority:1" json:"invoice_schedule_id"`
	InvoiceStudentID  uuid.UUID `gorm:"column:invoice_student_id;type:uuid;not null;uniqueIndex:uniq_invoice_schedule_student,priority:2;index" json:"invoice_student_id"`

	InvoiceDueDate time.Time `gorm:"column:invoice_due_date;not null" json:"invoice_due_date"`

	InvoiceGrandTotal  int64 `gorm:"column:invoice_grand_total;not null;check:invoice_grand_total>=0" json:"invoice_grand_total"`
	InvoiceOutstanding int64 `gorm:"column:invoice_outstanding;not null;default:0" json:"invoice_outstanding"`

	InvoiceStatus InvoiceStatus `gorm:"column:invoice_status;type:varchar(20);not null;default:'draft';index" json:"invoice_status"`

	Lines []InvoiceLine `gorm:"foreignKey:LineInvoiceID;references:InvoiceID" json:"lines"`

	// Timestamps
	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;not null" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time      `gorm:"column:invoice_updated_at;not null" json:"invoice_updated_at"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

func (m *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if m.InvoiceID == uuid.Nil {
		m.InvoiceID = uuid.New()
	}
	now := time.Now()
	if m.InvoiceCreatedAt.IsZero() {
		m.InvoiceCreatedAt = now
	}
	m.InvoiceUpdatedAt = now
	return nil
}

func (m *Invoice) BeforeUpdate(tx *gorm.DB) (err error) {
	m.InvoiceUpdatedAt = time.Now()
	return nil
}

// LinesTotal recomputes the grand total from the lines.
func (m *Invoice) LinesTotal() int64 {
	var sum int64
	for _, l := range m.Lines {
		sum += l.LineAmount
	}
	return sum
}

// =========================================================
// INVOICE LINE
// =========================================================

type InvoiceLine struct {
	// PK
	LineID uuid.UUID `gorm:"column:line_id;type:uuid;primaryKey" json:"line_id"`

	// FK → invoices(invoice_id)
	LineInvoiceID uuid.UUID `gorm:"column:line_invoice_id;type:uuid;not null;index" json:"line_invoice_id"`

	LineCategory string `gorm:"column:line_category;type:varchar(60);not null" json:"line_category"`
	LineAmount   int64  `gorm:"column:line_amount;not null;check:line_amount>=0" json:"line_amount"`
	LineIdx      int    `gorm:"column:line_idx;not null;default:0" json:"line_idx"`

	LineCreatedAt time.Time `gorm:"column:line_created_at;not null" json:"line_created_at"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }

func (m *InvoiceLine) BeforeCreate(tx *gorm.DB) (err error) {
	if m.LineID == uuid.Nil {
		m.LineID = uuid.New()
	}
	if m.LineCreatedAt.IsZero() {
		m.LineCreatedAt = time.Now()
	}
	return nil
}
