package handlers

import (
	"devhub/internal/middleware"
	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v3"
)

type PostHandler struct {
	postService  *service.PostService
	tokenService *service.TokenService
}

func NewPostHandler(postService *service.PostService, tokenService *service.TokenService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		tokenService: tokenService,
	}
}

func (h *PostHandler) RegisterRoutes(app *fiber.App) {
	auth := middleware.RequireAuth(h.tokenService)

	group := app.Group("/api/posts")
	group.Get("/", h.List, auth)
	group.Post("/", h.Create, auth)
	group.Get("/:id", h.Get, auth)
	group.Delete("/:id", h.Delete, auth)
	group.Put("/like/:id", h.Like, auth)
	group.Put("/unlike/:id", h.Unlike, auth)
	group.Post("/comment/:postId", h.AddComment, auth)
	group.Delete("/comment/:postId/:commentId", h.RemoveComment, auth)
}

func (h *PostHandler) Create(c fiber.Ctx) error {
	var req models.PostRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "Invalid request body",
		})
	}

	post, err := h.postService.Create(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) List(c fiber.Ctx) error {
	posts, err := h.postService.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) Get(c fiber.Ctx) error {
	post, err := h.postService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) Delete(c fiber.Ctx) error {
	if err := h.postService.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"msg": "Post deleted",
	})
}

// Like and Unlike return the updated like list only, not the full post.

func (h *PostHandler) Like(c fiber.Ctx) error {
	likes, err := h.postService.Like(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(likes)
}

func (h *PostHandler) Unlike(c fiber.Ctx) error {
	likes, err := h.postService.Unlike(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(likes)
}

func (h *PostHandler) AddComment(c fiber.Ctx) error {
	var req models.CommentRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "Invalid request body",
		})
	}

	comments, err := h.postService.AddComment(c.Context(), middleware.UserID(c), c.Params("postId"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

func (h *PostHandler) RemoveComment(c fiber.Ctx) error {
	comments, err := h.postService.RemoveComment(c.Context(), middleware.UserID(c), c.Params("postId"), c.Params("commentId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}
