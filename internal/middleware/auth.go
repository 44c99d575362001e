package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/pkg/jwt"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "user_email"
	ContextKeyName   = "user_name"
	ContextKeyRole   = "user_role"
	ContextKeyDemo   = "user_is_demo"
)

// Roles carried in session tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserAuth enforces a valid session token for reader endpoints. Admin
// tokens pass too.
func UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessionClaims(c)
		if err != nil {
			response.Unauthorized(c, "Not authorized. Please login.")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// AdminAuth enforces a valid session token carrying the admin role.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessionClaims(c)
		if err != nil {
			response.Unauthorized(c, "Not authorized. Please login.")
			return
		}
		if claims.Role != RoleAdmin {
			response.Forbidden(c, "Admin access required.")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets claims when a valid session token is present but never
// blocks the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := sessionClaims(c); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// DemoGuard blocks state-changing requests from demo accounts. GET passes
// so the demo admin can browse the dashboard.
func DemoGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" && IsDemo(c) {
			response.Forbidden(c, "Demo account: write operations are disabled.")
			return
		}
		c.Next()
	}
}

func sessionClaims(c *gin.Context) (*jwt.Claims, error) {
	claims, err := jwt.Parse(extractToken(c))
	if err != nil {
		return nil, err
	}
	if claims.Purpose != jwt.PurposeSession {
		return nil, errNotSession
	}
	return claims, nil
}

var errNotSession = &purposeError{}

type purposeError struct{}

func (*purposeError) Error() string { return "token is not a session token" }

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyName, claims.Name)
	c.Set(ContextKeyRole, claims.Role)
	c.Set(ContextKeyDemo, claims.IsDemo)
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentEmail extracts the authenticated user's email from context.
func CurrentEmail(c *gin.Context) string {
	v, _ := c.Get(ContextKeyEmail)
	email, _ := v.(string)
	return email
}

// CurrentName extracts the authenticated user's display name from context.
func CurrentName(c *gin.Context) string {
	v, _ := c.Get(ContextKeyName)
	name, _ := v.(string)
	return name
}

// IsDemo reports whether the request is authenticated as the demo account.
func IsDemo(c *gin.Context) bool {
	v, _ := c.Get(ContextKeyDemo)
	demo, _ := v.(bool)
	return demo
}

// IsAuthenticated reports whether the request carries a valid session.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return normalizeToken(auth)
	}
	return normalizeToken(c.Query("token"))
}

func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
