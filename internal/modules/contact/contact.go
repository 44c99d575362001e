package contact

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/mail"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service stores contact form submissions and forwards them to the owner.
type Service struct {
	db         *gorm.DB
	sender     *mail.Sender
	ownerEmail string
	log        *zap.Logger
}

func NewService(db *gorm.DB, sender *mail.Sender, ownerEmail string, log *zap.Logger) *Service {
	return &Service{db: db, sender: sender, ownerEmail: ownerEmail, log: log}
}

// Submit persists the message, then emails the owner without blocking the
// response.
func (s *Service) Submit(name, email, message string) (*models.ContactModel, error) {
	contact := models.ContactModel{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}
	if err := s.db.Create(&contact).Error; err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	if s.ownerEmail != "" && s.sender.Enabled() {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("contact notify panicked", zap.Any("panic", r))
				}
			}()
			if err := s.sender.SendContactNotify(s.ownerEmail, mail.ContactNotifyData{
				Name:    contact.Name,
				Email:   contact.Email,
				Message: contact.Message,
			}); err != nil {
				s.log.Warn("contact notify failed", zap.Error(err))
			}
		}()
	}
	return &contact, nil
}

// ListAll returns every submission, newest first (admin view).
func (s *Service) ListAll() ([]models.ContactModel, error) {
	var contacts []models.ContactModel
	err := s.db.Order("created_at DESC").Find(&contacts).Error
	return contacts, err
}

// Handler exposes the contact endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.submit)
}

type contactDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

func (h *Handler) submit(c *gin.Context) {
	var dto contactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Name, a valid email and a message are required.")
		return
	}

	contact, err := h.svc.Submit(dto.Name, dto.Email, dto.Message)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, "Message sent. We'll get back to you soon!", contact)
}
