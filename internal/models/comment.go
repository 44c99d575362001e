package models

// CommentModel is a reader comment on a blog.
type CommentModel struct {
	Base
	BlogID  string `json:"blogId"  gorm:"type:char(36);index;not null"`
	Name    string `json:"name"    gorm:"not null"`
	Content string `json:"content" gorm:"type:text;not null"`

	Blog *BlogModel `json:"blog,omitempty" gorm:"foreignKey:BlogID"`
}

func (CommentModel) TableName() string { return "comments" }
