// file: internals/features/users/account/model/account_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// MODEL
// =========================================================

// Account is the login identity behind every student, instructor and
// guardian profile. Email and phone are globally unique.
type Account struct {
	// PK
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`

	AccountEmail string `gorm:"column:account_email;type:varchar(120);not null;uniqueIndex:uniq_account_email" json:"account_email"`
	AccountPhone string `gorm:"column:account_phone;type:varchar(20);not null;uniqueIndex:uniq_account_phone" json:"account_phone"`

	AccountFirstName  string `gorm:"column:account_first_name;type:varchar(60);not null" json:"account_first_name"`
	AccountMiddleName string `gorm:"column:account_middle_name;type:varchar(60)" json:"account_middle_name,omitempty"`
	AccountLastName   string `gorm:"column:account_last_name;type:varchar(60)" json:"account_last_name,omitempty"`

	AccountPasswordHash string `gorm:"column:account_password_hash;type:varchar(100);not null" json:"-"`

	// Role set (json array); a guardian account can also be a student's payer etc.
	AccountRoles datatypes.JSONSlice[string] `gorm:"column:account_roles" json:"account_roles"`

	AccountEnabled bool `gorm:"column:account_enabled;not null;default:true" json:"account_enabled"`

	AccountDateOfBirth *time.Time `gorm:"column:account_date_of_birth" json:"account_date_of_birth,omitempty"`

	// Timestamps
	AccountCreatedAt time.Time      `gorm:"column:account_created_at;not null" json:"account_created_at"`
	AccountUpdatedAt time.Time      `gorm:"column:account_updated_at;not null" json:"account_updated_at"`
	AccountDeletedAt gorm.DeletedAt `gorm:"column:account_deleted_at;index" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// =========================================================
// HOOKS
// =========================================================

func (m *Account) BeforeCreate(tx *gorm.DB) (err error) {
	if m.AccountID == uuid.Nil {
		m.AccountID = uuid.New()
	}
	now := time.Now()
	if m.AccountCreatedAt.IsZero() {
		m.AccountCreatedAt = now
	}
	m.AccountUpdatedAt = now
	return nil
}

func (m *Account) BeforeUpdate(tx *gorm.DB) (err error) {
	m.AccountUpdatedAt = time.Now()
	return nil
}

// =========================================================
// HELPERS
// =========================================================

func (m *Account) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.AccountPasswordHash = string(hash)
	return nil
}

func (m *Account) HasRole(role string) bool {
	for _, r := range m.AccountRoles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole appends without duplicating; caller persists.
func (m *Account) AddRole(role string) {
	if !m.HasRole(role) {
		m.AccountRoles = append(m.AccountRoles, role)
	}
}

func (m *Account) FullName() string {
	parts := []string{m.AccountFirstName, m.AccountMiddleName, m.AccountLastName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, " ")
}
