package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/modules/ai"
	"github.com/nitaidalal/blog-core/internal/modules/blog"
	"github.com/nitaidalal/blog-core/internal/modules/comment"
	"github.com/nitaidalal/blog-core/internal/modules/contact"
	"github.com/nitaidalal/blog-core/internal/modules/storage"
	"github.com/nitaidalal/blog-core/internal/modules/user"
	"github.com/nitaidalal/blog-core/internal/pkg/cron"
	"github.com/nitaidalal/blog-core/internal/pkg/pagination"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
	"github.com/nitaidalal/blog-core/internal/pkg/taskqueue"
)

const aiTimeout = 90 * time.Second

// Handler wires the domain services into the admin API surface.
type Handler struct {
	blogs    *blog.Service
	comments *comment.Service
	users    *user.Service
	contacts *contact.Service
	ai       *ai.Service
	uploader storage.Uploader
	tasks    *taskqueue.Service
	cron     *cron.Scheduler
}

func NewHandler(
	blogs *blog.Service,
	comments *comment.Service,
	users *user.Service,
	contacts *contact.Service,
	aiSvc *ai.Service,
	uploader storage.Uploader,
	tasks *taskqueue.Service,
	cronSched *cron.Scheduler,
) *Handler {
	return &Handler{
		blogs:    blogs,
		comments: comments,
		users:    users,
		contacts: contacts,
		ai:       aiSvc,
		uploader: uploader,
		tasks:    tasks,
		cron:     cronSched,
	}
}

// RegisterRoutes mounts the admin routes. The group is expected to carry
// AdminAuth and DemoGuard already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/blogs", h.listBlogs)
	rg.GET("/blog/:id", h.getBlog)
	rg.GET("/comments", h.listComments)
	rg.GET("/allUsers", h.listUsers)
	rg.GET("/contacts", h.listContacts)

	rg.POST("/addBlog", h.addBlog)
	rg.PUT("/updateBlog/:id", h.updateBlog)
	rg.PUT("/toggle-publish/:id", h.togglePublish)
	rg.DELETE("/deleteBlog/:id", h.deleteBlog)
	rg.DELETE("/delete-comment/:id", h.deleteComment)

	rg.POST("/generate-content", h.generateContent)
	rg.GET("/ai/models", h.listAIModels)

	rg.GET("/newsletter/tasks", h.listNewsletterTasks)
	rg.GET("/cron", h.listCronJobs)
	rg.POST("/cron/:name/run", h.runCronJob)
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.blogs.Dashboard()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", stats)
}

func (h *Handler) listBlogs(c *gin.Context) {
	blogs, err := h.blogs.ListAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", blogs)
}

func (h *Handler) getBlog(c *gin.Context) {
	b, err := h.blogs.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, blog.ErrBlogNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", b)
}

func (h *Handler) listComments(c *gin.Context) {
	comments, err := h.comments.ListAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", comments)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", users)
}

func (h *Handler) listContacts(c *gin.Context) {
	contacts, err := h.contacts.ListAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", contacts)
}

func (h *Handler) addBlog(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	description := c.PostForm("description")
	category := strings.TrimSpace(c.PostForm("category"))
	if title == "" || description == "" || category == "" {
		response.BadRequest(c, "Title, description and category are required.")
		return
	}
	isPublished, _ := strconv.ParseBool(c.DefaultPostForm("isPublished", "false"))

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, err := h.uploader.Upload(c.Request.Context(), file)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		imageURL = url
	}

	created, err := h.blogs.Create(blog.CreateInput{
		Title:       title,
		Description: description,
		Category:    category,
		Image:       imageURL,
		IsPublished: isPublished,
	})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, "Blog added successfully.", created)
}

func (h *Handler) updateBlog(c *gin.Context) {
	in := blog.UpdateInput{}
	if v, ok := c.GetPostForm("title"); ok {
		in.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		in.Description = &v
	}
	if v, ok := c.GetPostForm("category"); ok {
		in.Category = &v
	}
	if v, ok := c.GetPostForm("isPublished"); ok {
		published, _ := strconv.ParseBool(v)
		in.IsPublished = &published
	}
	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, err := h.uploader.Upload(c.Request.Context(), file)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		in.Image = &url
	}

	updated, err := h.blogs.Update(c.Param("id"), in)
	if err != nil {
		if errors.Is(err, blog.ErrBlogNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "Blog updated successfully.", updated)
}

func (h *Handler) togglePublish(c *gin.Context) {
	updated, err := h.blogs.TogglePublish(c.Param("id"))
	if err != nil {
		if errors.Is(err, blog.ErrBlogNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "Blog publish state updated.", updated)
}

func (h *Handler) deleteBlog(c *gin.Context) {
	err := h.blogs.Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, blog.ErrBlogNotFound) {
			response.NotFound(c, "Blog not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "Blog deleted successfully.", nil)
}

func (h *Handler) deleteComment(c *gin.Context) {
	err := h.comments.Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, comment.ErrCommentNotFound) {
			response.NotFound(c, "Comment not found.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "Comment deleted successfully.", nil)
}

type generateContentDTO struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (h *Handler) generateContent(c *gin.Context) {
	var dto generateContentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Prompt is required.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), aiTimeout)
	defer cancel()

	content, err := h.ai.GenerateContent(ctx, dto.Prompt)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			response.BadRequest(c, "AI provider is not configured.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", gin.H{"content": content})
}

func (h *Handler) listAIModels(c *gin.Context) {
	models, err := h.ai.ListModels(c.Request.Context())
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			response.BadRequest(c, "AI provider is not configured.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", models)
}

func (h *Handler) listNewsletterTasks(c *gin.Context) {
	if h.tasks == nil {
		response.OK(c, "", []struct{}{})
		return
	}
	q := pagination.FromContext(c)
	tasks, total, err := h.tasks.List(c.Request.Context(), q.Page, q.Size)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, "", gin.H{"tasks": tasks, "total": total})
}

func (h *Handler) listCronJobs(c *gin.Context) {
	response.OK(c, "", h.cron.List())
}

func (h *Handler) runCronJob(c *gin.Context) {
	// The job outlives the request, so don't tie it to the request context.
	if err := h.cron.Run(context.Background(), c.Param("name")); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.OK(c, "Job triggered.", nil)
}
