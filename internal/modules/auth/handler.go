package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
)

// Handler exposes the auth HTTP endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

type registerDTO struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var dto registerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Name, email and a password of at least 6 characters are required.")
		return
	}

	result, err := h.svc.Register(dto.Name, dto.Email, dto.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.BadRequest(c, "Email already registered.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, "Account created successfully.", result)
}

func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Email and password are required.")
		return
	}

	result, err := h.svc.Login(dto.Email, dto.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid email or password.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "Logged in successfully.", result)
}
