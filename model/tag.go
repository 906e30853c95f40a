package model

import (
	"time"

	"gorm.io/gorm"
)

// Tag is a catalog entry used for topic and user interest matching
type Tag struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"uniqueIndex;not null;type:varchar(50)" json:"name"`
	Color     string         `gorm:"type:varchar(20)" json:"color"`
}

// TopicTag associates a topic with a tag
type TopicTag struct {
	TopicID uint `gorm:"primaryKey" json:"topic_id"`
	TagID   uint `gorm:"primaryKey" json:"tag_id"`

	Topic Topic `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"-"`
	Tag   Tag   `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}

// UserTag associates a user with a tag they are interested in
type UserTag struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`
	TagID  uint `gorm:"primaryKey" json:"tag_id"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tag  Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}
