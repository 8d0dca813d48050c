// file: internals/features/users/account/service/identity_allocator.go
package service

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"alummah_backend/internals/features/users/account/model"
	"alummah_backend/internals/helpers/apperr"
)

// maxAllocAttempts bounds the collision retry loop. The 4-digit suffix
// keyspace makes exhaustion practically impossible; the bound exists so a
// broken uniqueness check fails loudly instead of spinning.
const maxAllocAttempts = 50

var dotRuns = regexp.MustCompile(`\.+`)

// IdentityAllocator synthesizes collision-free emails and phone numbers
// for rows that arrive without them. Read-only against accounts.
type IdentityAllocator struct {
	DB     *gorm.DB
	Domain string
}

func NewIdentityAllocator(db *gorm.DB, domain string) *IdentityAllocator {
	return &IdentityAllocator{DB: db, Domain: domain}
}

// AllocateEmail builds first.last.disambiguator@domain, lower-cased with
// punctuation collapsed to single dots; on collision a random 4-digit
// suffix is appended and retried.
func (a *IdentityAllocator) AllocateEmail(first, last, disambiguator string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(first) + "." + strings.TrimSpace(last))
	base = strings.ReplaceAll(base, " ", ".")
	dis := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(disambiguator), " ", ""))
	if dis != "" {
		base = base + "." + dis
	}
	base = strings.Trim(dotRuns.ReplaceAllString(base, "."), ".")

	email := base + "@" + a.Domain
	exists, err := a.emailExists(email)
	if err != nil {
		return "", err
	}
	if !exists {
		return email, nil
	}

	for i := 0; i < maxAllocAttempts; i++ {
		email = fmt.Sprintf("%s.%04d@%s", base, rand.Intn(9000)+1000, a.Domain)
		exists, err := a.emailExists(email)
		if err != nil {
			return "", err
		}
		if !exists {
			return email, nil
		}
	}
	return "", apperr.Conflict("could not allocate a unique email for %q after %d attempts", base, maxAllocAttempts)
}

// AllocatePhone returns a random 10-digit number with a fixed leading 9,
// retried until unused.
func (a *IdentityAllocator) AllocatePhone() (string, error) {
	for i := 0; i < maxAllocAttempts; i++ {
		phone := fmt.Sprintf("9%09d", rand.Intn(1_000_000_000))
		exists, err := a.phoneExists(phone)
		if err != nil {
			return "", err
		}
		if !exists {
			return phone, nil
		}
	}
	return "", apperr.Conflict("could not allocate a unique phone after %d attempts", maxAllocAttempts)
}

func (a *IdentityAllocator) emailExists(email string) (bool, error) {
	var n int64
	err := a.DB.Model(&model.Account{}).
		Where("account_email = ?", email).
		Count(&n).Error
	return n > 0, err
}

func (a *IdentityAllocator) phoneExists(phone string) (bool, error) {
	var n int64
	err := a.DB.Model(&model.Account{}).
		Where("account_phone = ?", phone).
		Count(&n).Error
	return n > 0, err
}
