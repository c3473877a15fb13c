package server

import (
	"errors"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SignUp handles POST /api/auth/sign-up
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	// A malformed body leaves the fields empty and fails validation below.
	_ = c.BodyParser(&req)

	validationErrors := validation.ValidateUserInput(req.Username, req.Email, req.Password)
	if len(validationErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation errors",
			"errors":  validationErrors,
		})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to register, Internal Server Error",
		})
	}

	user := &models.User{
		Username: validation.Sanitize(req.Username),
		Email:    req.Email,
		Password: hash,
	}

	if err := s.userRepo.Create(c.Context(), user); err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": conflict.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to register, Internal Server Error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Users successfully registered.",
	})
}

// SignIn handles POST /api/auth/sign-in
func (s *Server) SignIn(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = c.BodyParser(&req)

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Username and password are required.",
		})
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		if models.IsNotFound(err) {
			// Same status and message as a wrong password so callers cannot
			// probe which usernames exist.
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Invalid Credentials",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to login, Internal Server Error",
		})
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Credentials",
		})
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to login, Internal Server Error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login Successful!",
		"token":   token,
		"userId":  user.ID.Hex(),
	})
}

// GetUserDetails handles GET /api/auth/:userId
func (s *Server) GetUserDetails(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No user found",
		})
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if models.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "No user found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"userDetails": user,
	})
}
