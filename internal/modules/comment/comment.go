package comment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound    = errors.New("blog not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// Service handles comment business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add stores a comment on a published blog.
func (s *Service) Add(blogID, name, content string) (*models.CommentModel, error) {
	var count int64
	if err := s.db.Model(&models.BlogModel{}).
		Where("id = ? AND is_published = ?", blogID, true).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check blog: %w", err)
	}
	if count == 0 {
		return nil, ErrBlogNotFound
	}

	comment := models.CommentModel{
		BlogID:  blogID,
		Name:    strings.TrimSpace(name),
		Content: strings.TrimSpace(content),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// ListByBlog returns a blog's comments, newest first.
func (s *Service) ListByBlog(blogID string) ([]models.CommentModel, error) {
	var comments []models.CommentModel
	err := s.db.Where("blog_id = ?", blogID).Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// ListAll returns every comment with its blog, newest first (admin view).
func (s *Service) ListAll() ([]models.CommentModel, error) {
	var comments []models.CommentModel
	err := s.db.Preload("Blog").Order("created_at DESC").Find(&comments).Error
	return comments, err
}

// Delete removes a comment by ID.
func (s *Service) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.CommentModel{})
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Handler exposes the public comment endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the public comment routes on the /api/user group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/comment/:id", h.add)
	rg.GET("/comments/:id", h.listByBlog)
}

type addCommentDTO struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) add(c *gin.Context) {
	var dto addCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Name and content are required.")
		return
	}

	comment, err := h.svc.Add(c.Param("id"), dto.Name, dto.Content)
	if err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, "Comment added.", comment)
}

func (h *Handler) listByBlog(c *gin.Context) {
	comments, err := h.svc.ListByBlog(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", comments)
}
