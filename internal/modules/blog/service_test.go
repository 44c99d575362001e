package blog

import (
	"errors"
	"sync"
	"testing"

	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.BlogModel{},
		&models.BlogLikeModel{},
		&models.CommentModel{},
		&models.SubscriberModel{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db), db
}

// recordingNotifier captures publish notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	blogs []string
}

func (n *recordingNotifier) BlastNewBlog(blog *models.BlogModel) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.blogs = append(n.blogs, blog.ID)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.blogs)
}

func seedBlog(t *testing.T, svc *Service, title, category string, published bool) *models.BlogModel {
	t.Helper()
	blog, err := svc.Create(CreateInput{
		Title:       title,
		Description: "body of " + title,
		Category:    category,
		IsPublished: published,
	})
	if err != nil {
		t.Fatalf("seed %q: %v", title, err)
	}
	return blog
}

func TestListPublishedFilters(t *testing.T) {
	svc, _ := newTestService(t)

	seedBlog(t, svc, "Go Concurrency Patterns", "golang", true)
	seedBlog(t, svc, "Intro to SQL Joins", "databases", true)
	seedBlog(t, svc, "Unpublished Draft", "golang", false)

	q := pagination.Query{Page: 1, Size: 8}

	blogs, pag, err := svc.ListPublished(q, ListQuery{})
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(blogs) != 2 || pag.TotalItems != 2 {
		t.Errorf("published list = %d items (total %d), want 2", len(blogs), pag.TotalItems)
	}
	for _, b := range blogs {
		if !b.IsPublished {
			t.Errorf("draft leaked into public list: %q", b.Title)
		}
	}

	blogs, _, err = svc.ListPublished(q, ListQuery{Category: "GoLang"})
	if err != nil {
		t.Fatalf("category filter: %v", err)
	}
	if len(blogs) != 1 || blogs[0].Title != "Go Concurrency Patterns" {
		t.Errorf("case-insensitive category filter broken: %+v", blogs)
	}

	blogs, _, err = svc.ListPublished(q, ListQuery{Search: "SQL"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(blogs) != 1 || blogs[0].Title != "Intro to SQL Joins" {
		t.Errorf("title search broken: %+v", blogs)
	}
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	svc, _ := newTestService(t)

	draft := seedBlog(t, svc, "Draft", "misc", false)

	if _, err := svc.GetPublished(draft.ID); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("GetPublished(draft) = %v, want ErrBlogNotFound", err)
	}
	if _, err := svc.GetByID(draft.ID); err != nil {
		t.Errorf("GetByID(draft) = %v, want nil", err)
	}
	if _, err := svc.GetPublished("no-such-id"); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("GetPublished(missing) = %v, want ErrBlogNotFound", err)
	}
}

func TestCreatePublishedNotifies(t *testing.T) {
	svc, _ := newTestService(t)
	n := &recordingNotifier{}
	svc.SetNotifier(n)

	seedBlog(t, svc, "Born Published", "golang", true)
	seedBlog(t, svc, "Born Draft", "golang", false)

	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}
}

func TestTogglePublishNotifiesOnlyWhenTurningOn(t *testing.T) {
	svc, _ := newTestService(t)
	n := &recordingNotifier{}
	svc.SetNotifier(n)

	draft := seedBlog(t, svc, "Draft", "golang", false)

	blog, err := svc.TogglePublish(draft.ID)
	if err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	if !blog.IsPublished {
		t.Error("blog should be published after toggle")
	}
	if n.count() != 1 {
		t.Errorf("notifications after publish = %d, want 1", n.count())
	}

	blog, err = svc.TogglePublish(draft.ID)
	if err != nil {
		t.Fatalf("second TogglePublish: %v", err)
	}
	if blog.IsPublished {
		t.Error("blog should be unpublished after second toggle")
	}
	if n.count() != 1 {
		t.Errorf("unpublish should not notify, got %d", n.count())
	}
}

func TestUpdatePartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	n := &recordingNotifier{}
	svc.SetNotifier(n)

	blog := seedBlog(t, svc, "Original Title", "golang", false)

	title := "Updated Title"
	published := true
	updated, err := svc.Update(blog.ID, UpdateInput{Title: &title, IsPublished: &published})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Updated Title" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Category != "golang" || updated.Description != "body of Original Title" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if n.count() != 1 {
		t.Errorf("publish flip should notify once, got %d", n.count())
	}

	if _, err := svc.Update("no-such-id", UpdateInput{Title: &title}); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("Update(missing) = %v, want ErrBlogNotFound", err)
	}
}

func TestToggleLikeInvolution(t *testing.T) {
	svc, _ := newTestService(t)
	blog := seedBlog(t, svc, "Likeable", "golang", true)

	res, err := svc.ToggleLike(blog.ID, "u1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !res.HasLiked || res.LikeCount != 1 {
		t.Errorf("after like: %+v", res)
	}

	res, err = svc.ToggleLike(blog.ID, "u2")
	if err != nil {
		t.Fatalf("second user toggle: %v", err)
	}
	if res.LikeCount != 2 {
		t.Errorf("two likers, count = %d", res.LikeCount)
	}

	res, err = svc.ToggleLike(blog.ID, "u1")
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if res.HasLiked || res.LikeCount != 1 {
		t.Errorf("after unlike: %+v", res)
	}

	liked, err := svc.HasLiked(blog.ID, "u2")
	if err != nil || !liked {
		t.Errorf("HasLiked(u2) = %v, %v", liked, err)
	}
	liked, err = svc.HasLiked(blog.ID, "")
	if err != nil || liked {
		t.Errorf("HasLiked(anonymous) = %v, %v", liked, err)
	}
}

func TestToggleLikeRequiresPublishedBlog(t *testing.T) {
	svc, _ := newTestService(t)
	draft := seedBlog(t, svc, "Draft", "golang", false)

	if _, err := svc.ToggleLike(draft.ID, "u1"); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("ToggleLike(draft) = %v, want ErrBlogNotFound", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	svc, db := newTestService(t)
	blog := seedBlog(t, svc, "Doomed", "golang", true)

	if err := db.Create(&models.CommentModel{BlogID: blog.ID, Name: "Reader", Content: "nice"}).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	if _, err := svc.ToggleLike(blog.ID, "u1"); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	if err := svc.Delete(blog.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.GetByID(blog.ID); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("deleted blog still visible: %v", err)
	}
	var comments int64
	db.Model(&models.CommentModel{}).Where("blog_id = ?", blog.ID).Count(&comments)
	if comments != 0 {
		t.Errorf("comments survived delete: %d", comments)
	}
	var likes int64
	db.Model(&models.BlogLikeModel{}).Where("blog_id = ?", blog.ID).Count(&likes)
	if likes != 0 {
		t.Errorf("likes survived delete: %d", likes)
	}

	if err := svc.Delete("no-such-id"); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrBlogNotFound", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, db := newTestService(t)

	seedBlog(t, svc, "Published One", "golang", true)
	seedBlog(t, svc, "Published Two", "golang", true)
	draft := seedBlog(t, svc, "Draft", "golang", false)

	db.Create(&models.CommentModel{BlogID: draft.ID, Name: "Reader", Content: "hi"})
	db.Create(&models.SubscriberModel{UserID: "u1", Email: "a@b.c", IsSubscribed: true})
	db.Create(&models.SubscriberModel{UserID: "u2", Email: "d@e.f", IsSubscribed: false})

	stats, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.Blogs != 3 || stats.Drafts != 1 || stats.Comments != 1 || stats.Subscribers != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.RecentBlogs) != 3 {
		t.Errorf("recent blogs = %d, want 3", len(stats.RecentBlogs))
	}
}
