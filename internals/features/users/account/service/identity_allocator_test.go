package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alummah_backend/internals/features/users/account/model"
	"alummah_backend/internals/testdb"
)

func newAllocator(t *testing.T) *IdentityAllocator {
	db := testdb.Open(t, &model.Account{})
	return NewIdentityAllocator(db, "codedaddy.io")
}

func seedAccount(t *testing.T, a *IdentityAllocator, email, phone string) {
	t.Helper()
	acc := model.Account{
		AccountEmail:     email,
		AccountPhone:     phone,
		AccountFirstName: "Seed",
		AccountRoles:     []string{"student"},
		AccountEnabled:   true,
	}
	require.NoError(t, acc.SetPassword("x"))
	require.NoError(t, a.DB.Create(&acc).Error)
}

func TestAllocateEmail(t *testing.T) {
	tests := []struct {
		name          string
		first, last   string
		disambiguator string
		want          string
	}{
		{"plain", "Ahmed", "Khan", "GR101", "ahmed.khan.gr101@codedaddy.io"},
		{"spaces collapse to dots", "Mohammed Ali", "Shaikh", "GR 7", "mohammed.ali.shaikh.gr7@codedaddy.io"},
		{"empty disambiguator", "Sara", "Patel", "", "sara.patel@codedaddy.io"},
		{"no last name", "Ibrahim", "", "GR9", "ibrahim.gr9@codedaddy.io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAllocator(t)
			got, err := a.AllocateEmail(tt.first, tt.last, tt.disambiguator)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllocateEmailCollision(t *testing.T) {
	a := newAllocator(t)
	seedAccount(t, a, "ahmed.khan.gr101@codedaddy.io", "9000000001")

	got, err := a.AllocateEmail("Ahmed", "Khan", "GR101")
	require.NoError(t, err)

	assert.NotEqual(t, "ahmed.khan.gr101@codedaddy.io", got)
	assert.True(t, strings.HasPrefix(got, "ahmed.khan.gr101."), "suffix appended to base: %s", got)
	assert.True(t, strings.HasSuffix(got, "@codedaddy.io"))
}

func TestAllocatePhone(t *testing.T) {
	a := newAllocator(t)

	phone, err := a.AllocatePhone()
	require.NoError(t, err)

	assert.Len(t, phone, 10)
	assert.True(t, strings.HasPrefix(phone, "9"))

	seedAccount(t, a, "taken@codedaddy.io", phone)
	next, err := a.AllocatePhone()
	require.NoError(t, err)
	assert.NotEqual(t, phone, next)
}
