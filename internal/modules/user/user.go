package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/middleware"
	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// Service handles reader account queries.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetByID fetches a user by ID.
func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var user models.UserModel
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Rename updates the display name.
func (s *Service) Rename(id, name string) (*models.UserModel, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(name)
	if err := s.db.Model(user).Update("name", user.Name).Error; err != nil {
		return nil, fmt.Errorf("rename user: %w", err)
	}
	return user, nil
}

// ListAll returns every registered reader, newest first (admin view).
func (s *Service) ListAll() ([]models.UserModel, error) {
	var users []models.UserModel
	err := s.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// Handler exposes the profile endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the profile routes on the /api/user group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, userAuth gin.HandlerFunc) {
	rg.GET("/profile", userAuth, h.profile)
	rg.PUT("/profile", userAuth, h.rename)
}

func (h *Handler) profile(c *gin.Context) {
	user, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "User not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", user)
}

type renameDTO struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) rename(c *gin.Context) {
	var dto renameDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Name is required.")
		return
	}

	user, err := h.svc.Rename(middleware.CurrentUserID(c), dto.Name)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "User not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "Profile updated.", user)
}
