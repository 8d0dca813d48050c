package constants

import "fmt"

const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
	RoleGuardian   = "guardian"
)

var AllRoles = []string{
	RoleAdmin,
	RoleInstructor,
	RoleStudent,
	RoleGuardian,
}

// Role error message templates
const (
	ErrOnlyAdminsCanAccess = "❌ Only admins may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}
