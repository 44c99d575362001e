package models

import "time"

// SubscriberModel is a user's newsletter opt-in state. Rows are never
// hard-deleted; unsubscribing flips IsSubscribed and stamps UnsubscribedAt.
type SubscriberModel struct {
	Base
	UserID         string     `json:"user"           gorm:"type:char(36);uniqueIndex;not null"`
	Email          string     `json:"email"          gorm:"uniqueIndex;not null"`
	Name           string     `json:"name"`
	IsSubscribed   bool       `json:"isSubscribed"   gorm:"default:true"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
