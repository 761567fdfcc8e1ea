package controller

import (
	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/pkg/serverutils"
	"ai-blog-be/internal/service"
	"ai-blog-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsReview = "review"

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Destroy(ctx *fiber.Ctx) error
}

type reviewController struct {
	service   service.IReviewService
	sessions  serverutils.SessionResolver
	signInURL string
}

func NewReviewController(service service.IReviewService, sessions serverutils.SessionResolver, signInURL string) IReviewController {
	return &reviewController{service: service, sessions: sessions, signInURL: signInURL}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	isLoggedIn := serverutils.IsLoggedIn(c.sessions, c.signInURL)
	isReviewAuthor := serverutils.IsResourceAuthor(serverutils.AuthorCheck[entity.Review]{
		Name:      "review",
		Param:     "reviewId",
		LocalsKey: localsReview,
		Load:      c.service.FindById,
		OwnerOf:   func(rv *entity.Review) uuid.UUID { return rv.AuthorId },
	})

	h := r.Group("/posts/:id/reviews")
	h.Get("", c.List)
	h.Post("", isLoggedIn, c.Create)
	h.Delete("/:reviewId", isLoggedIn, isReviewAuthor, c.Destroy)
}

func postIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("post not found")
	}
	return id, nil
}

func (c *reviewController) List(ctx *fiber.Ctx) error {
	postId, err := postIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), postId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list reviews", res))
}

func (c *reviewController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}
	postId, err := postIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.PostId = postId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[*dto.CreateReviewResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Review created successfully",
		Data:    res,
	})
}

func (c *reviewController) Destroy(ctx *fiber.Ctx) error {
	review, err := serverutils.ResourceFromLocals[entity.Review](ctx, localsReview)
	if err != nil {
		return err
	}
	postId, err := postIdParam(ctx)
	if err != nil {
		return err
	}
	// the review must belong to the post named in the route
	if review.PostId != postId {
		return apperror.NotFound("review not found")
	}

	if err := c.service.Destroy(ctx.Context(), review); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Review deleted successfully", nil))
}
