package server

import (
	"recordhub/internal/models"
	"recordhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the body of POST /api/posts. The owner is always the
// authenticated caller.
type CreatePostRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	Phone      string `json:"phone"`
	Profession string `json:"profession"`
}

// ListPosts godoc
// @Summary List posts
// @Description All posts newest first, optionally filtered by exact category
// @Tags posts
// @Produce json
// @Param category query string false "Exact category"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.UserContext(), c.Query("category"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"count": len(posts), "posts": posts})
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	var req CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Phone:      req.Phone,
		Profession: req.Profession,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post_id": post.ID, "post": post})
}

// SearchPosts godoc
// @Summary Search posts
// @Description Case-insensitive substring match on title, content, category and profession, newest first
// @Tags posts
// @Produce json
// @Param q query string true "Search query"
// @Param category query string false "Exact category"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	results, err := s.postService.Search(c.UserContext(), c.Query("q"), c.Query("category"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"count": len(results), "results": results})
}
