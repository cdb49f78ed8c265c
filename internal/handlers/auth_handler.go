package handlers

import (
	"devhub/internal/middleware"
	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devhub_registration_attempts_total",
			Help: "Total number of registration attempts",
		},
		[]string{"status"},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devhub_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	loginDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devhub_login_duration_seconds",
			Help:    "Time spent processing login requests",
			Buckets: prometheus.DefBuckets,
		},
	)
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
}

func NewAuthHandler(userService *service.UserService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	users := app.Group("/api/users")
	users.Post("/", h.Register)
	// Both verbs so a mailed confirmation link works as a plain GET.
	users.Get("/confirm/:token", h.Confirm)
	users.Put("/confirm/:token", h.Confirm)

	auth := app.Group("/api/auth")
	auth.Post("/", h.Login)
	auth.Get("/", h.Current, middleware.RequireAuth(h.tokenService))
}

// Register creates an unconfirmed account and triggers the confirmation
// mail.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		registrationAttempts.WithLabelValues("failure").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "Invalid request body",
		})
	}

	if err := h.userService.Register(c.Context(), req); err != nil {
		registrationAttempts.WithLabelValues("failure").Inc()
		return respondError(c, err)
	}

	registrationAttempts.WithLabelValues("success").Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"msg": "Confirmation mail sent",
	})
}

// Confirm verifies the emailed token, flips the confirmed flag and returns
// a session token.
func (h *AuthHandler) Confirm(c fiber.Ctx) error {
	token, err := h.userService.Confirm(c.Context(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	timer := prometheus.NewTimer(loginDuration)
	defer timer.ObserveDuration()

	var req models.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"msg": "Invalid request body",
		})
	}

	token, err := h.userService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		return respondError(c, err)
	}

	loginAttempts.WithLabelValues("success").Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// Current returns the caller's user record.
func (h *AuthHandler) Current(c fiber.Ctx) error {
	user, err := h.userService.Current(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
