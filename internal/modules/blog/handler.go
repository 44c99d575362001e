package blog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/middleware"
	"github.com/nitaidalal/blog-core/internal/pkg/markdown"
	"github.com/nitaidalal/blog-core/internal/pkg/pagination"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
)

// Handler exposes the public blog endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the public blog routes on the /api/user group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, userAuth gin.HandlerFunc) {
	rg.GET("/view-all", h.listPublished)
	rg.GET("/view/:id", middleware.OptionalAuth(), h.viewOne)
	rg.POST("/like/:id", userAuth, h.toggleLike)
}

func (h *Handler) listPublished(c *gin.Context) {
	q := pagination.FromContext(c)
	lq := ListQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	blogs, pag, err := h.svc.ListPublished(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, blogs, pag)
}

func (h *Handler) viewOne(c *gin.Context) {
	blog, err := h.svc.GetPublished(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8",
			[]byte(markdown.RenderDocument(blog.Title, blog.Description)))
		return
	}

	hasLiked, _ := h.svc.HasLiked(blog.ID, middleware.CurrentUserID(c))
	response.OK(c, "", gin.H{
		"blog":     blog,
		"hasLiked": hasLiked,
	})
}

func (h *Handler) toggleLike(c *gin.Context) {
	result, err := h.svc.ToggleLike(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrBlogNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", result)
}
