package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nitaidalal/blog-core/internal/config"
	"github.com/nitaidalal/blog-core/internal/middleware"
	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles registration and login.
type Service struct {
	db    *gorm.DB
	admin config.AdminConfig
}

func NewService(db *gorm.DB, admin config.AdminConfig) *Service {
	return &Service{db: db, admin: admin}
}

// LoginResult is returned on successful register/login.
type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the public shape of the authenticated account.
type LoginUser struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	IsDemo bool   `json:"isDemo,omitempty"`
}

// Register creates a reader account and returns a session token.
func (s *Service) Register(name, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.UserModel{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueUserToken(&user)
}

// Login authenticates admin, demo-admin, or reader credentials. Admin
// accounts live in config, not the users table.
func (s *Service) Login(email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	if s.admin.Email != "" && email == normalizeEmail(s.admin.Email) && password == s.admin.Password {
		return s.issueAdminToken(email, "Admin", false)
	}
	if s.admin.DemoEmail != "" && email == normalizeEmail(s.admin.DemoEmail) && password == s.admin.DemoPassword {
		return s.issueAdminToken(email, "Demo Admin", true)
	}

	var user models.UserModel
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueUserToken(&user)
}

func (s *Service) issueUserToken(user *models.UserModel) (*LoginResult, error) {
	token, err := jwt.SignSession(user.ID, user.Email, user.Name, middleware.RoleUser, false, jwt.UserSessionTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{
		Token: token,
		User: LoginUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  middleware.RoleUser,
		},
	}, nil
}

func (s *Service) issueAdminToken(email, name string, isDemo bool) (*LoginResult, error) {
	token, err := jwt.SignSession("", email, name, middleware.RoleAdmin, isDemo, jwt.AdminSessionTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{
		Token: token,
		User: LoginUser{
			Name:   name,
			Email:  email,
			Role:   middleware.RoleAdmin,
			IsDemo: isDemo,
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
