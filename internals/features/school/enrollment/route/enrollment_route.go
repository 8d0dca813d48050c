// file: internals/features/school/enrollment/route/enrollment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alummah_backend/internals/features/school/enrollment/controller"
	"alummah_backend/internals/middlewares"
	"alummah_backend/internals/middlewares/auth"
)

// EnrollmentAdminRoutes mounts the onboarding endpoints under the
// admin-guarded group.
func EnrollmentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewEnrollmentController(db)

	grp := r.Group("/enrollment", auth.OnlyAdmin("enrollment"))
	grp.Post("/students", ctl.EnrollStudent)
	grp.Post("/students/batch", middlewares.BatchRateLimiter(), ctl.EnrollStudentsBatch)
	grp.Post("/instructors/batch", middlewares.BatchRateLimiter(), ctl.EnrollInstructorsBatch)
}
