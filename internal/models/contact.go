package models

// ContactModel stores a contact form submission.
type ContactModel struct {
	Base
	Name    string `json:"name"    gorm:"not null"`
	Email   string `json:"email"   gorm:"not null"`
	Message string `json:"message" gorm:"type:text;not null"`
}

func (ContactModel) TableName() string { return "contacts" }
