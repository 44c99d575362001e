package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redisc "github.com/nitaidalal/blog-core/internal/pkg/redis"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// Handler exposes liveness endpoints.
type Handler struct {
	db *gorm.DB
	rc *redisc.Client
}

func NewHandler(db *gorm.DB, rc *redisc.Client) *Handler {
	return &Handler{db: db, rc: rc}
}

// RegisterRoot mounts /health on the engine root.
func (h *Handler) RegisterRoot(r *gin.Engine) {
	r.GET("/health", h.health)
}

// RegisterRoutes mounts /ping on the /api group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func (h *Handler) health(c *gin.Context) {
	dbOK := false
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			dbOK = sqlDB.Ping() == nil
		}
	}

	redisOK := false
	if h.rc != nil {
		redisOK = h.rc.Raw().Ping(c.Request.Context()).Err() == nil
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ok", false: "degraded"}[dbOK && redisOK],
		"db":     dbOK,
		"redis":  redisOK,
		"uptime": time.Since(startedAt).Round(time.Second).String(),
	})
}
