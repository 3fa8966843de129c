package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/campushub/club-service/internal/auth/dto"
	"github.com/campushub/club-service/internal/auth/service"
	autherror "github.com/campushub/club-service/internal/errors"
)

type AuthHandler struct {
	userService *service.UserService
	tokens      service.TokenIssuer
}

func NewAuthHandler(userService *service.UserService, tokens service.TokenIssuer) *AuthHandler {
	return &AuthHandler{userService: userService, tokens: tokens}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	input.IPAddress = c.IP()

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		if verr, ok := autherror.AsValidationError(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"fields": verr.Messages,
			})
		}
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) || errors.Is(err, autherror.ErrIdentifierInUse) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "registration failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserOutput{
		ID:         user.ID,
		Identifier: user.Identifier,
		Email:      user.Email,
		UserType:   string(user.UserType),
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	})
}

// Login returns the same generic message for every authentication failure;
// the cause is only visible in the security log.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	input.IPAddress = c.IP()

	tokenPair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": autherror.ErrInvalidCredentials.Error(),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "login failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.IPAddress = c.IP()

	tokens, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidRefreshToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": autherror.ErrInvalidRefreshToken.Error(),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "token refresh failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.LogoutInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.IPAddress = c.IP()

	if err := h.userService.Logout(c.Context(), input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "logout failed",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Session returns the principal extracted from the presented access token.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	principal := PrincipalFrom(c)
	if principal == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	return c.Status(fiber.StatusOK).JSON(dto.PrincipalOutput{
		UserID:   principal.UserID,
		UserType: string(principal.UserType),
		Subject:  principal.Subject,
	})
}
