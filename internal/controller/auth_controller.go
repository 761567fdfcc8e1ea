package controller

import (
	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/pkg/serverutils"
	"ai-blog-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service   service.IAuthService
	signInURL string
}

func NewAuthController(service service.IAuthService, signInURL string) IAuthController {
	return &authController{service: service, signInURL: signInURL}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)

	protected := h.Group("", serverutils.IsLoggedIn(c.service, c.signInURL))
	protected.Post("/logout", c.Logout)
	protected.Get("/me", c.Me)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[*dto.RegisterResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "User registered successfully",
		Data:    res,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if err := c.service.Logout(ctx.Context(), serverutils.SessionIdFromLocals(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out successfully", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Me(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get current user", res))
}
