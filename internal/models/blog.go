package models

import "time"

// BlogModel is a blog post. Description holds the markdown body.
type BlogModel struct {
	Base
	Title       string `json:"title"       gorm:"not null"`
	Description string `json:"description" gorm:"type:longtext;not null"`
	Category    string `json:"category"    gorm:"index;not null"`
	Image       string `json:"image"`
	IsPublished bool   `json:"isPublished" gorm:"default:false;index"`
	LikeCount   int    `json:"likeCount"   gorm:"default:0"`

	Likes []BlogLikeModel `json:"-" gorm:"foreignKey:BlogID"`
}

func (BlogModel) TableName() string { return "blogs" }

// BlogLikeModel is one user's like on one blog. The composite primary key
// is the uniqueness constraint the like toggle relies on.
type BlogLikeModel struct {
	BlogID    string    `json:"blogId" gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
}

func (BlogLikeModel) TableName() string { return "blog_likes" }
