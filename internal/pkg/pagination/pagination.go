package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nitaidalal/blog-core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 8
	MaxSize     = 50
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts and clamps pagination params from the request. The
// legacy API calls the size parameter "limit".
func FromContext(c *gin.Context) Query {
	page := parseIntOr(c.DefaultQuery("page", ""), DefaultPage)
	size := parseIntOr(c.DefaultQuery("limit", ""), DefaultSize)

	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return Query{Page: page, Size: size}
}

// Paginate applies count + limit/offset to a GORM query and fills dest.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	offset := (q.Page - 1) * q.Size
	if err := db.Offset(offset).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	totalPages := int((total + int64(q.Size) - 1) / int64(q.Size))

	return response.Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		PerPage:     q.Size,
		HasNextPage: q.Page < totalPages,
		HasPrevPage: q.Page > 1,
	}, nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
