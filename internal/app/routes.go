package app

import (
	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/middleware"
	"github.com/nitaidalal/blog-core/internal/modules/admin"
	"github.com/nitaidalal/blog-core/internal/modules/ai"
	"github.com/nitaidalal/blog-core/internal/modules/auth"
	"github.com/nitaidalal/blog-core/internal/modules/blog"
	"github.com/nitaidalal/blog-core/internal/modules/comment"
	"github.com/nitaidalal/blog-core/internal/modules/contact"
	"github.com/nitaidalal/blog-core/internal/modules/health"
	"github.com/nitaidalal/blog-core/internal/modules/newsletter"
	"github.com/nitaidalal/blog-core/internal/modules/storage"
	"github.com/nitaidalal/blog-core/internal/modules/user"
	"github.com/nitaidalal/blog-core/internal/pkg/mail"
	pkgredis "github.com/nitaidalal/blog-core/internal/pkg/redis"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
	"github.com/nitaidalal/blog-core/internal/pkg/taskqueue"
)

func (a *App) registerRoutes(rc *pkgredis.Client) error {
	r := a.router
	db := a.db
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found.")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	sender := mail.New(cfg.Mail)
	uploader, err := storage.New(cfg)
	if err != nil {
		return err
	}
	taskSvc := taskqueue.NewService(rc)

	// Services
	authSvc := auth.NewService(db, cfg.Admin)
	userSvc := user.NewService(db)
	blogSvc := blog.NewService(db)
	commentSvc := comment.NewService(db)
	contactSvc := contact.NewService(db, sender, cfg.Admin.Email, a.logger)
	newsletterSvc := newsletter.NewService(db, sender, cfg.FrontendURL, cfg.Mail.SiteName, a.logger)
	aiSvc := ai.NewService(cfg.AI)

	notifier := newsletter.NewNotifier(newsletterSvc, taskSvc, a.logger)
	blogSvc.SetNotifier(notifier)

	// Local cover images when S3 is not configured.
	r.Static("/uploads", cfg.Paths.Uploads)

	health.NewHandler(db, rc).RegisterRoot(r)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(rc))
	health.NewHandler(db, rc).RegisterRoutes(api)

	auth.NewHandler(authSvc).RegisterRoutes(api.Group("/auth"))

	userGroup := api.Group("/user")
	userAuth := middleware.UserAuth()
	blog.NewHandler(blogSvc).RegisterRoutes(userGroup, userAuth)
	comment.NewHandler(commentSvc).RegisterRoutes(userGroup)
	contact.NewHandler(contactSvc).RegisterRoutes(userGroup)
	user.NewHandler(userSvc).RegisterRoutes(userGroup, userAuth)

	newsletter.NewHandler(newsletterSvc).RegisterRoutes(api.Group("/newsletter"))

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuth(), middleware.DemoGuard())
	admin.NewHandler(blogSvc, commentSvc, userSvc, contactSvc, aiSvc, uploader, taskSvc, a.sched).
		RegisterRoutes(adminGroup)

	return nil
}
