// file: internals/features/finance/fees/route/fee_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alummah_backend/internals/features/finance/fees/controller"
	"alummah_backend/internals/middlewares"
	"alummah_backend/internals/middlewares/auth"
)

// FeeAdminRoutes mounts the fee-distribution endpoints under the
// admin-guarded group.
func FeeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewFeeController(db)

	grp := r.Group("/fees", auth.OnlyAdmin("fees"))
	grp.Post("/schedules", ctl.GenerateSchedules)
	grp.Post("/schedules/with-invoices", middlewares.BatchRateLimiter(), ctl.GenerateWithInvoices)
	grp.Post("/schedules/:id/invoices", middlewares.BatchRateLimiter(), ctl.FanoutInvoices)
}
