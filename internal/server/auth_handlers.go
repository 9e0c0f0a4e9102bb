package server

import (
	"docmanager/internal/models"
	"docmanager/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles account creation. Self-registration always yields a
// client account; elevated roles are provisioned by the seed tooling.
func (s *Server) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.UserContext(), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login verifies credentials and returns a bearer token.
func (s *Server) Login(c *fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	token, user, err := s.authService.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
