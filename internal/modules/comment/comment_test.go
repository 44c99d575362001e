package comment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/models"
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
	if err := db.AutoMigrate(&models.BlogModel{}, &models.CommentModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db), db
}

func seedBlog(t *testing.T, db *gorm.DB, published bool) *models.BlogModel {
	t.Helper()
	blog := models.BlogModel{
		Title:       "A Post",
		Description: "body",
		Category:    "misc",
		IsPublished: published,
	}
	if err := db.Create(&blog).Error; err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	return &blog
}

func TestAddAndList(t *testing.T) {
	svc, db := newTestService(t)
	blog := seedBlog(t, db, true)

	first, err := svc.Add(blog.ID, "  Reader  ", " great post ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.Name != "Reader" || first.Content != "great post" {
		t.Errorf("fields not trimmed: %+v", first)
	}

	if _, err := svc.Add(blog.ID, "Another", "me too"); err != nil {
		t.Fatalf("second Add: %v", err)
	}

	comments, err := svc.ListByBlog(blog.ID)
	if err != nil {
		t.Fatalf("ListByBlog: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("len(comments) = %d, want 2", len(comments))
	}
}

func TestAddRejectsDraftsAndMissingBlogs(t *testing.T) {
	svc, db := newTestService(t)
	draft := seedBlog(t, db, false)

	if _, err := svc.Add(draft.ID, "Reader", "hi"); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("Add(draft) = %v, want ErrBlogNotFound", err)
	}
	if _, err := svc.Add("no-such-blog", "Reader", "hi"); !errors.Is(err, ErrBlogNotFound) {
		t.Errorf("Add(missing) = %v, want ErrBlogNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	svc, db := newTestService(t)
	blog := seedBlog(t, db, true)

	comment, err := svc.Add(blog.ID, "Reader", "delete me")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Delete(comment.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(comment.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("second Delete = %v, want ErrCommentNotFound", err)
	}

	comments, err := svc.ListByBlog(blog.ID)
	if err != nil {
		t.Fatalf("ListByBlog: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comment survived delete: %d", len(comments))
	}
}

func TestCommentEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, db := newTestService(t)
	blog := seedBlog(t, db, true)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/user"))

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/api/user/comment/"+blog.ID, `{"name":"Reader","content":"nice"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want 201; body %s", w.Code, w.Body.String())
	}

	w = post("/api/user/comment/"+blog.ID, `{"name":"Reader"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing content status = %d, want 400", w.Code)
	}

	w = post("/api/user/comment/no-such-blog", `{"name":"Reader","content":"hi"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing blog status = %d, want 404", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/user/comments/"+blog.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	var body struct {
		Data []models.CommentModel `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Content != "nice" {
		t.Errorf("unexpected list payload: %+v", body.Data)
	}
}
