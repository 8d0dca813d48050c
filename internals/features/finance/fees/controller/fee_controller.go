// file: internals/features/finance/fees/controller/fee_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alummah_backend/internals/features/finance/fees/dto"
	"alummah_backend/internals/features/finance/fees/service"
	helper "alummah_backend/internals/helpers"
	"alummah_backend/internals/helpers/apperr"
)

type FeeController struct {
	DB        *gorm.DB
	Validate  *validator.Validate
	Generator *service.ScheduleGenerator
	Fanout    *service.InvoiceFanout
}

func NewFeeController(db *gorm.DB) *FeeController {
	return &FeeController{
		DB:        db,
		Validate:  validator.New(),
		Generator: service.NewScheduleGenerator(db),
		Fanout:    service.NewInvoiceFanout(db),
	}
}

// POST /api/a/fees/schedules
func (ctl *FeeController) GenerateSchedules(c *fiber.Ctx) error {
	var req dto.GenerateSchedulesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctl.Generator.Generate(req)
	if err != nil {
		return helper.Error(c, apperr.HTTPStatus(err), err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Fee schedules created", result)
}

// POST /api/a/fees/schedules/:id/invoices
func (ctl *FeeController) FanoutInvoices(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	var req dto.FanoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := ctl.Fanout.Run(scheduleID, req.Exceptions)
	if err != nil {
		return helper.Error(c, apperr.HTTPStatus(err), err.Error())
	}
	return helper.Success(c, "Invoices created", result)
}

// POST /api/a/fees/schedules/with-invoices
func (ctl *FeeController) GenerateWithInvoices(c *fiber.Ctx) error {
	var req dto.GenerateWithInvoicesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req.GenerateSchedulesRequest); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := service.GenerateWithInvoices(ctl.DB, req)
	if err != nil {
		return helper.Error(c, apperr.HTTPStatus(err), err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Fee schedules and invoices created", result)
}
