package server

import (
	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// callerID returns the authenticated user id placed in locals by the token
// middleware, parsed as an object id.
func callerID(c *fiber.Ctx) (primitive.ObjectID, error) {
	userID, _ := c.Locals("userID").(string)
	return primitive.ObjectIDFromHex(userID)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	_ = c.BodyParser(&req)

	createdBy, err := callerID(c)
	if err != nil || req.Title == "" || req.Description == "" || req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "UserId, title, description, and category are required fields.",
		})
	}

	post := &models.Post{
		Title:       validation.Sanitize(req.Title),
		Description: validation.Sanitize(req.Description),
		Category:    validation.Sanitize(req.Category),
		CreatedBy:   createdBy,
	}

	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post saved successfully!",
		"post":    post,
	})
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// GetPost handles GET /api/posts/:postId
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID := c.Params("postId")
	if postID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Post Id is required.",
		})
	}

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		if models.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "No post found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// UpdatePost handles PATCH /api/posts/:postId
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID := c.Params("postId")
	if postID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Post Id is required",
		})
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	// An empty or malformed body means no field changes.
	_ = c.BodyParser(&req)

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		if models.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "No post found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error",
		})
	}

	// Empty-string fields are treated as "not supplied" and keep their prior
	// value. Clearing a field is therefore not possible through this endpoint.
	if req.Title != "" {
		post.Title = validation.Sanitize(req.Title)
	}
	if req.Description != "" {
		post.Description = validation.Sanitize(req.Description)
	}
	if req.Category != "" {
		post.Category = validation.Sanitize(req.Category)
	}
	if updatedBy, idErr := callerID(c); idErr == nil {
		post.UpdatedBy = &updatedBy
	}

	if err := s.postRepo.Update(c.Context(), post); err != nil {
		if models.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "No post found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post updated successfully!",
		"post":    post,
	})
}

// DeletePost handles DELETE /api/posts/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID := c.Params("postId")
	if postID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Post Id is required",
		})
	}

	if err := s.postRepo.Delete(c.Context(), postID); err != nil {
		if models.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "No post found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal Server Error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully.",
	})
}
