package controllers

import (
	"stocktake-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SessionController struct {
	DB *gorm.DB
}

func NewSessionController(DB *gorm.DB) *SessionController {
	return &SessionController{DB: DB}
}

func (c *SessionController) CreateSession(ctx *fiber.Ctx) error {
	var req services.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	service := services.NewSessionService(c.DB)
	session, err := service.CreateSession(req, currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Session created successfully",
		"data":    session,
	})
}

func (c *SessionController) GetAllSessions(ctx *fiber.Ctx) error {
	service := services.NewSessionService(c.DB)
	sessions, err := service.ListSessions()
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    sessions,
	})
}

func (c *SessionController) GetSessionDetail(ctx *fiber.Ctx) error {
	service := services.NewSessionService(c.DB)
	session, err := service.GetByCode(ctx.Params("code"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": session})
}

func (c *SessionController) GetProgress(ctx *fiber.Ctx) error {
	service := services.NewSessionService(c.DB)
	progress, err := service.Progress(ctx.Params("code"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": progress})
}

func (c *SessionController) PauseSession(ctx *fiber.Ctx) error {
	service := services.NewSessionService(c.DB)
	session, err := service.Pause(ctx.Params("code"), currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Session paused", "data": session})
}

func (c *SessionController) ResumeSession(ctx *fiber.Ctx) error {
	service := services.NewSessionService(c.DB)
	session, err := service.Resume(ctx.Params("code"), currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Session resumed", "data": session})
}

func (c *SessionController) CloseSession(ctx *fiber.Ctx) error {
	var req struct {
		Force bool `json:"force"`
	}
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	service := services.NewSessionService(c.DB)
	session, err := service.CloseSession(ctx.Params("code"), req.Force, currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	message := "Session completed"
	if req.Force {
		message = "Session force-closed"
	}
	return ctx.JSON(fiber.Map{"success": true, "message": message, "data": session})
}
