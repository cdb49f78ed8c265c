package handlers

import (
	"devhub/internal/middleware"
	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	githubService  *service.GithubService
	tokenService   *service.TokenService
}

func NewProfileHandler(profileService *service.ProfileService, githubService *service.GithubService, tokenService *service.TokenService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		githubService:  githubService,
		tokenService:   tokenService,
	}
}

func (h *ProfileHandler) RegisterRoutes(app *fiber.App) {
	auth := middleware.RequireAuth(h.tokenService)

	group := app.Group("/api/profile")

	// Public reads.
	group.Get("/", h.List)
	group.Get("/user/:userID", h.ByUserID)
	group.Get("/github/:username", h.GithubRepos)

	// Owner-scoped operations.
	group.Get("/me", h.Me, auth)
	group.Post("/", h.Upsert, auth)
	group.Delete("/", h.DeleteAccount, auth)
	group.Put("/experience", h.AddExperience, auth)
	group.Delete("/experience/:id", h.RemoveExperience, auth)
	group.Put("/education", h.AddEducation, auth)
	group.Delete("/education/:id", h.RemoveEducation, auth)
}

func (h *ProfileHandler) Me(c fiber.Ctx) error {
	profile, err := h.profileService.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *ProfileHandler) List(c fiber.Ctx) error {
	profiles, err := h.profileService.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profiles)
}

func (h *ProfileHandler) ByUserID(c fiber.Ctx) error {
	profile, err := h.profileService.ByUserID(c.Context(), c.Params("userID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// Upsert creates or updates the caller's profile; the response does not
// distinguish which happened.
func (h *ProfileHandler) Upsert(c fiber.Ctx) error {
	var req models.UpsertProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "Invalid request body",
		})
	}

	profile, err := h.profileService.Upsert(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *ProfileHandler) AddExperience(c fiber.Ctx) error {
	var req models.ExperienceRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "Invalid request body",
		})
	}

	profile, err := h.profileService.AddExperience(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *ProfileHandler) RemoveExperience(c fiber.Ctx) error {
	profile, err := h.profileService.RemoveExperience(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *ProfileHandler) AddEducation(c fiber.Ctx) error {
	var req models.EducationRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "Invalid request body",
		})
	}

	profile, err := h.profileService.AddEducation(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *ProfileHandler) RemoveEducation(c fiber.Ctx) error {
	profile, err := h.profileService.RemoveEducation(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// DeleteAccount cascades posts, profile and the user record.
func (h *ProfileHandler) DeleteAccount(c fiber.Ctx) error {
	if err := h.profileService.DeleteAccount(c.Context(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"msg": "User deleted",
	})
}

func (h *ProfileHandler) GithubRepos(c fiber.Ctx) error {
	repos, err := h.githubService.Repos(c.Context(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(repos)
}
