// file: internals/features/school/enrollment/controller/enrollment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alummah_backend/internals/configs"
	"alummah_backend/internals/features/school/enrollment/dto"
	"alummah_backend/internals/features/school/enrollment/service"
	accountService "alummah_backend/internals/features/users/account/service"
	helper "alummah_backend/internals/helpers"
	"alummah_backend/internals/helpers/apperr"
)

type EnrollmentController struct {
	DB          *gorm.DB
	Validate    *validator.Validate
	Batch       *service.BatchEnroller
	Instructors *service.InstructorEnroller
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	alloc := accountService.NewIdentityAllocator(db, configs.AccountDomain)
	return &EnrollmentController{
		DB:          db,
		Validate:    validator.New(),
		Batch:       service.NewBatchEnroller(db, alloc, configs.DefaultPassword),
		Instructors: service.NewInstructorEnroller(db),
	}
}

// POST /api/a/enrollment/students/batch
func (ctl *EnrollmentController) EnrollStudentsBatch(c *fiber.Ctx) error {
	var req dto.BatchEnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctl.Batch.EnrollBatch(req)
	if err != nil {
		return helper.Error(c, apperr.HTTPStatus(err), err.Error())
	}
	return helper.Success(c, result.Message, result)
}

// POST /api/a/enrollment/students
func (ctl *EnrollmentController) EnrollStudent(c *fiber.Ctx) error {
	var req dto.SingleEnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	person, err := ctl.Batch.EnrollOne(req)
	if err != nil {
		return helper.Error(c, apperr.HTTPStatus(err), err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Student enrolled", person)
}

// POST /api/a/enrollment/instructors/batch
func (ctl *EnrollmentController) EnrollInstructorsBatch(c *fiber.Ctx) error {
	var req dto.InstructorBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctl.Instructors.EnrollBatch(req)
	if err != nil {
		return helper.Error(c, apperr.HTTPStatus(err), err.Error())
	}
	return helper.Success(c, result.Message, result)
}
