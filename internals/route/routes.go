// file: internals/route/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeRoute "alummah_backend/internals/features/finance/fees/route"
	enrollRoute "alummah_backend/internals/features/school/enrollment/route"
	"alummah_backend/internals/middlewares/auth"
)

// SetupRoutes wires every feature group. /api/a is the admin surface;
// everything under it requires a valid token and the admin role.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	admin := api.Group("/a", auth.AuthMiddleware(db))
	enrollRoute.EnrollmentAdminRoutes(admin, db)
	feeRoute.FeeAdminRoutes(admin, db)
}
