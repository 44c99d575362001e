package auth

import (
	"errors"
	"testing"

	"github.com/nitaidalal/blog-core/internal/config"
	"github.com/nitaidalal/blog-core/internal/middleware"
	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.UserModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db, config.AdminConfig{
		Email:        "admin@example.com",
		Password:     "admin-secret",
		DemoEmail:    "demo@example.com",
		DemoPassword: "demo-secret",
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Register("Reader", "Reader@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Email != "reader@example.com" {
		t.Errorf("email not normalized: %q", res.User.Email)
	}
	if res.User.Role != middleware.RoleUser || res.User.ID == "" {
		t.Errorf("unexpected user: %+v", res.User)
	}

	claims, err := jwt.Parse(res.Token)
	if err != nil {
		t.Fatalf("Parse register token: %v", err)
	}
	if claims.Purpose != jwt.PurposeSession || claims.UserID != res.User.ID {
		t.Errorf("unexpected claims: %+v", claims)
	}

	login, err := svc.Login("reader@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != res.User.ID {
		t.Errorf("login user mismatch: %q vs %q", login.User.ID, res.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("One", "same@example.com", "pw1"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register("Two", "SAME@example.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("Reader", "reader@example.com", "correct"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "reader@example.com", "incorrect"},
		{"unknown email", "nobody@example.com", "whatever"},
		{"admin wrong password", "admin@example.com", "not-the-secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginAdmin(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Login("Admin@Example.com", "admin-secret")
	if err != nil {
		t.Fatalf("admin Login: %v", err)
	}
	if res.User.Role != middleware.RoleAdmin || res.User.Name != "Admin" || res.User.IsDemo {
		t.Errorf("unexpected admin user: %+v", res.User)
	}

	claims, err := jwt.Parse(res.Token)
	if err != nil {
		t.Fatalf("Parse admin token: %v", err)
	}
	if claims.Role != middleware.RoleAdmin || claims.IsDemo {
		t.Errorf("unexpected admin claims: %+v", claims)
	}
}

func TestLoginDemoAdmin(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Login("demo@example.com", "demo-secret")
	if err != nil {
		t.Fatalf("demo Login: %v", err)
	}
	if res.User.Role != middleware.RoleAdmin || !res.User.IsDemo || res.User.Name != "Demo Admin" {
		t.Errorf("unexpected demo user: %+v", res.User)
	}

	claims, err := jwt.Parse(res.Token)
	if err != nil {
		t.Fatalf("Parse demo token: %v", err)
	}
	if !claims.IsDemo {
		t.Error("demo claim not set")
	}
}
