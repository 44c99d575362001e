package newsletter

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
)

// Handler exposes the newsletter HTTP endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribe", h.subscribe)
	rg.POST("/unsubscribe", h.unsubscribe)
}

type subscribeDTO struct {
	User struct {
		ID    string `json:"id" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name"`
	} `json:"user" binding:"required"`
}

type unsubscribeDTO struct {
	Token string `json:"token"`
}

func (h *Handler) subscribe(c *gin.Context) {
	var dto subscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "A user with id and email is required.")
		return
	}

	sub, outcome, err := h.svc.Subscribe(dto.User.ID, dto.User.Email, dto.User.Name)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if outcome == OutcomeSubscribed {
		response.Created(c, "Successfully subscribed! Check your email.", sub)
		return
	}
	response.OK(c, "Welcome back! Subscription reactivated.", sub)
}

func (h *Handler) unsubscribe(c *gin.Context) {
	var dto unsubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil || strings.TrimSpace(dto.Token) == "" {
		response.BadRequest(c, "Invalid unsubscribe link.")
		return
	}

	err := h.svc.Unsubscribe(strings.TrimSpace(dto.Token))
	switch {
	case err == nil:
		response.OK(c, "Unsubscribed successfully", nil)
	case errors.Is(err, ErrInvalidToken):
		response.BadRequest(c, "Invalid unsubscribe token.")
	case errors.Is(err, ErrNotSubscribed):
		response.NotFound(c, "Not subscribed")
	default:
		response.InternalError(c, err)
	}
}
