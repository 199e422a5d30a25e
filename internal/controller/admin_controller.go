package controller

import (
	"time"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/serverutils"
	"rag-chat-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
}

type adminController struct {
	cfg          *config.Config
	settingsRepo contract.SettingsRepository
}

func NewAdminController(cfg *config.Config, settingsRepo contract.SettingsRepository) IAdminController {
	return &adminController{
		cfg:          cfg,
		settingsRepo: settingsRepo,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	auth := r.Group("/auth/v1")
	auth.Post("admin", c.Login)

	admin := r.Group("/admin/v1")
	admin.Use(serverutils.JwtMiddleware)
	admin.Get("settings", c.GetSettings)
	admin.Put("settings", c.UpdateSettings)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.cfg.Keys.AdminPasswordHash), []byte(req.Password)); err != nil {
		return serverutils.NewUnauthorizedError("Invalid credentials")
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.Keys.JwtSecret))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login", dto.AdminLoginResponse{Token: signed}))
}

func (c *adminController) GetSettings(ctx *fiber.Ctx) error {
	settings, err := c.settingsRepo.Get(ctx.Context())
	if err != nil {
		return err
	}
	prompt, err := c.settingsRepo.GetSystemPrompt(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get settings", dto.SettingsResponse{
		Model:        settings.Model,
		SystemPrompt: prompt,
	}))
}

func (c *adminController) UpdateSettings(ctx *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	updated, err := c.settingsRepo.Save(ctx.Context(), &entity.SettingsPatch{
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		return err
	}

	prompt, err := c.settingsRepo.GetSystemPrompt(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update settings", dto.SettingsResponse{
		Model:        updated.Model,
		SystemPrompt: prompt,
	}))
}
