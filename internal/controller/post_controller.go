package controller

import (
	"errors"
	"fmt"

	"ai-blog-be/internal/dto"
	"ai-blog-be/internal/entity"
	"ai-blog-be/internal/pkg/serverutils"
	"ai-blog-be/internal/pkg/storage"
	"ai-blog-be/internal/service"
	"ai-blog-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsPost = "post"

// ImageStore places uploaded images and removes them again.
type ImageStore interface {
	Allocate(contentType string) (diskPath, ref string, err error)
	Remove(ref string) error
}

type IPostController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type postController struct {
	service        service.IPostService
	sessions       serverutils.SessionResolver
	images         ImageStore
	signInURL      string
	maxUploadBytes int64
}

func NewPostController(
	service service.IPostService,
	sessions serverutils.SessionResolver,
	images ImageStore,
	signInURL string,
	maxUploadBytes int64,
) IPostController {
	return &postController{
		service:        service,
		sessions:       sessions,
		images:         images,
		signInURL:      signInURL,
		maxUploadBytes: maxUploadBytes,
	}
}

func (c *postController) RegisterRoutes(r fiber.Router) {
	isLoggedIn := serverutils.IsLoggedIn(c.sessions, c.signInURL)
	isPostAuthor := serverutils.IsResourceAuthor(serverutils.AuthorCheck[entity.Post]{
		Name:      "post",
		Param:     "id",
		LocalsKey: localsPost,
		Load:      c.service.FindById,
		OwnerOf:   func(p *entity.Post) uuid.UUID { return p.AuthorId },
	})

	h := r.Group("/posts")
	h.Get("", c.List)
	h.Get("/:id", c.Show)
	h.Post("", isLoggedIn, c.Create)
	h.Put("/:id", isLoggedIn, isPostAuthor, c.Update)
	h.Delete("/:id", isLoggedIn, isPostAuthor, c.Delete)
}

func (c *postController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromLocals(ctx)
	if err != nil {
		return err
	}

	var req dto.CreatePostRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		return apperror.Validation("image is required")
	}
	if c.maxUploadBytes > 0 && file.Size > c.maxUploadBytes {
		return apperror.Validation(fmt.Sprintf("image must be at most %d bytes", c.maxUploadBytes))
	}

	diskPath, ref, err := c.images.Allocate(file.Header.Get(fiber.HeaderContentType))
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return apperror.Validation("image must be png, jpeg, gif or webp")
		}
		return err
	}
	if err := ctx.SaveFile(file, diskPath); err != nil {
		return err
	}
	req.ImageRef = ref

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		_ = c.images.Remove(ref)
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[*dto.CreatePostResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Post created successfully",
		Data:    res,
	})
}

func (c *postController) List(ctx *fiber.Ctx) error {
	var req dto.ListPostsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if raw := ctx.Query("author"); raw != "" {
		authorId, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("author must be a valid id")
		}
		req.AuthorId = authorId
	}

	res, err := c.service.List(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list posts", res))
}

func (c *postController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound("post not found")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show post", res))
}

func (c *postController) Update(ctx *fiber.Ctx) error {
	post, err := serverutils.ResourceFromLocals[entity.Post](ctx, localsPost)
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Id = post.Id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), post, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update post", res))
}

func (c *postController) Delete(ctx *fiber.Ctx) error {
	post, err := serverutils.ResourceFromLocals[entity.Post](ctx, localsPost)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), post); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete post", nil))
}
