package blog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/pagination"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog not found")

// Notifier is invoked when a blog becomes published. Wired to the
// newsletter blast at startup; nil means no notifications.
type Notifier interface {
	BlastNewBlog(blog *models.BlogModel)
}

// Service handles blog business logic.
type Service struct {
	db       *gorm.DB
	notifier Notifier
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SetNotifier wires up new-post notifications (optional).
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// ListQuery holds optional public list filters.
type ListQuery struct {
	Category string
	Search   string
}

// ListPublished returns a paginated list of published blogs, newest first.
func (s *Service) ListPublished(q pagination.Query, lq ListQuery) ([]models.BlogModel, response.Pagination, error) {
	tx := s.db.Model(&models.BlogModel{}).
		Where("is_published = ?", true).
		Order("created_at DESC")

	if category := strings.TrimSpace(lq.Category); category != "" {
		tx = tx.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if search := strings.TrimSpace(lq.Search); search != "" {
		pattern := "%" + search + "%"
		tx = tx.Where("title LIKE ? OR category LIKE ?", pattern, pattern)
	}

	var blogs []models.BlogModel
	pag, err := pagination.Paginate(tx, q, &blogs)
	return blogs, pag, err
}

// GetPublished fetches a single published blog.
func (s *Service) GetPublished(id string) (*models.BlogModel, error) {
	var blog models.BlogModel
	err := s.db.Where("id = ? AND is_published = ?", id, true).First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return &blog, nil
}

// GetByID fetches a blog regardless of publish state (admin view).
func (s *Service) GetByID(id string) (*models.BlogModel, error) {
	var blog models.BlogModel
	if err := s.db.First(&blog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return &blog, nil
}

// ListAll returns every blog for the admin panel, newest first.
func (s *Service) ListAll() ([]models.BlogModel, error) {
	var blogs []models.BlogModel
	err := s.db.Order("created_at DESC").Find(&blogs).Error
	return blogs, err
}

// CreateInput holds the fields for a new blog.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Image       string
	IsPublished bool
}

// Create inserts a blog and triggers the blast when born published.
func (s *Service) Create(in CreateInput) (*models.BlogModel, error) {
	blog := models.BlogModel{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Image:       in.Image,
		IsPublished: in.IsPublished,
	}
	if err := s.db.Create(&blog).Error; err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	if blog.IsPublished && s.notifier != nil {
		s.notifier.BlastNewBlog(&blog)
	}
	return &blog, nil
}

// UpdateInput holds optional blog updates; nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Image       *string
	IsPublished *bool
}

// Update applies partial updates. Flipping IsPublished from false to true
// triggers the blast.
func (s *Service) Update(id string, in UpdateInput) (*models.BlogModel, error) {
	blog, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	wasPublished := blog.IsPublished
	if in.Title != nil {
		blog.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		blog.Description = *in.Description
	}
	if in.Category != nil {
		blog.Category = strings.TrimSpace(*in.Category)
	}
	if in.Image != nil {
		blog.Image = *in.Image
	}
	if in.IsPublished != nil {
		blog.IsPublished = *in.IsPublished
	}

	if err := s.db.Save(blog).Error; err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}

	if !wasPublished && blog.IsPublished && s.notifier != nil {
		s.notifier.BlastNewBlog(blog)
	}
	return blog, nil
}

// TogglePublish flips the publish state and blasts when it turns on.
func (s *Service) TogglePublish(id string) (*models.BlogModel, error) {
	blog, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	blog.IsPublished = !blog.IsPublished
	if err := s.db.Model(blog).Update("is_published", blog.IsPublished).Error; err != nil {
		return nil, fmt.Errorf("toggle publish: %w", err)
	}

	if blog.IsPublished && s.notifier != nil {
		s.notifier.BlastNewBlog(blog)
	}
	return blog, nil
}

// Delete soft-deletes a blog and removes its comments and likes.
func (s *Service) Delete(id string) error {
	blog, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.BlogLikeModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(blog).Error
	})
}

// LikeResult is returned from ToggleLike.
type LikeResult struct {
	LikeCount int64 `json:"likeCount"`
	HasLiked  bool  `json:"hasLiked"`
}

// ToggleLike adds or removes the user's like and refreshes the counter.
// The composite primary key on blog_likes arbitrates concurrent toggles.
func (s *Service) ToggleLike(blogID, userID string) (*LikeResult, error) {
	blog, err := s.GetPublished(blogID)
	if err != nil {
		return nil, err
	}

	result := LikeResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		like := models.BlogLikeModel{BlogID: blog.ID, UserID: userID}
		createErr := tx.Create(&like).Error
		switch {
		case createErr == nil:
			result.HasLiked = true
		case errors.Is(createErr, gorm.ErrDuplicatedKey):
			if err := tx.Where("blog_id = ? AND user_id = ?", blog.ID, userID).
				Delete(&models.BlogLikeModel{}).Error; err != nil {
				return err
			}
			result.HasLiked = false
		default:
			return createErr
		}

		var count int64
		if err := tx.Model(&models.BlogLikeModel{}).Where("blog_id = ?", blog.ID).Count(&count).Error; err != nil {
			return err
		}
		result.LikeCount = count
		return tx.Model(&models.BlogModel{}).Where("id = ?", blog.ID).Update("like_count", count).Error
	})
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	return &result, nil
}

// HasLiked reports whether the user has liked the blog.
func (s *Service) HasLiked(blogID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	err := s.db.Model(&models.BlogLikeModel{}).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Count(&count).Error
	return count > 0, err
}

// DashboardStats summarizes content for the admin dashboard.
type DashboardStats struct {
	Blogs       int64              `json:"blogs"`
	Comments    int64              `json:"comments"`
	Drafts      int64              `json:"drafts"`
	Subscribers int64              `json:"subscribers"`
	RecentBlogs []models.BlogModel `json:"recentBlogs"`
}

// Dashboard gathers the admin dashboard numbers.
func (s *Service) Dashboard() (*DashboardStats, error) {
	stats := DashboardStats{}

	if err := s.db.Model(&models.BlogModel{}).Count(&stats.Blogs).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.CommentModel{}).Count(&stats.Comments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.BlogModel{}).Where("is_published = ?", false).Count(&stats.Drafts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.SubscriberModel{}).Where("is_subscribed = ?", true).Count(&stats.Subscribers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("created_at DESC").Limit(5).Find(&stats.RecentBlogs).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
