package pagination

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 8},
		{"explicit", "page=3&limit=20", 3, 20},
		{"negative page", "page=-1&limit=10", 1, 10},
		{"zero limit", "page=2&limit=0", 2, 8},
		{"oversized limit clamped", "page=1&limit=500", 1, 50},
		{"garbage input", "page=abc&limit=xyz", 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			q := FromContext(c)
			if q.Page != tt.wantPage || q.Size != tt.wantSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", q.Page, q.Size, tt.wantPage, tt.wantSize)
			}
		})
	}
}

type row struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPaginate(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 25; i++ {
		db.Create(&row{Name: fmt.Sprintf("row-%02d", i)})
	}

	var rows []row
	pag, err := Paginate(db.Model(&row{}).Order("id"), Query{Page: 2, Size: 10}, &rows)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	if len(rows) != 10 {
		t.Errorf("len(rows) = %d, want 10", len(rows))
	}
	if rows[0].Name != "row-10" {
		t.Errorf("first row = %q, want row-10", rows[0].Name)
	}
	if pag.TotalItems != 25 || pag.TotalPages != 3 {
		t.Errorf("totals = %d/%d pages, want 25/3", pag.TotalItems, pag.TotalPages)
	}
	if !pag.HasNextPage || !pag.HasPrevPage {
		t.Errorf("middle page should have both neighbors: %+v", pag)
	}
}

func TestPaginateLastPage(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 5; i++ {
		db.Create(&row{Name: fmt.Sprintf("row-%d", i)})
	}

	var rows []row
	pag, err := Paginate(db.Model(&row{}), Query{Page: 1, Size: 8}, &rows)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if pag.TotalPages != 1 || pag.HasNextPage || pag.HasPrevPage {
		t.Errorf("single page metadata wrong: %+v", pag)
	}
	if len(rows) != 5 {
		t.Errorf("len(rows) = %d, want 5", len(rows))
	}
}
