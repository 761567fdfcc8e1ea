package controller

import (
	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/service"
	"ai-blog-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// IWriterController serves the generation facade. Its responses are bare
// JSON objects, not the API envelope, because composition clients read
// generated_text, summary and error directly.
type IWriterController interface {
	RegisterRoutes(r fiber.Router)
	GenerateBlog(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
}

type writerController struct {
	service service.IWriterService
}

func NewWriterController(service service.IWriterService) IWriterController {
	return &writerController{service: service}
}

func (c *writerController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate_blog", c.GenerateBlog)
	r.Post("/summarize", c.Summarize)
}

func (c *writerController) GenerateBlog(ctx *fiber.Ctx) error {
	var req dto.GenerateBlogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return writerError(ctx, apperror.Validation("Invalid JSON body"))
	}

	res, err := c.service.GenerateBlog(ctx.Context(), &req)
	if err != nil {
		return writerError(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *writerController) Summarize(ctx *fiber.Ctx) error {
	var req dto.SummarizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return writerError(ctx, apperror.Validation("Invalid JSON body"))
	}

	res, err := c.service.Summarize(ctx.Context(), &req)
	if err != nil {
		return writerError(ctx, err)
	}
	return ctx.JSON(res)
}

// writerError answers every failure with 400 and an error message.
func writerError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(dto.WriterErrorResponse{
		Error: apperror.UserMessage(err, "Unexpected error"),
	})
}
