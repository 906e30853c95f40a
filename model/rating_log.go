package model

import (
	"time"

	"gorm.io/gorm"
)

// RatingLog records a rating one user gave another; dashboard averages are
// derived from these rows.
type RatingLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	RatedUserID uint           `gorm:"index;not null" json:"rated_user_id"`
	RaterID     uint           `gorm:"not null" json:"rater_id"`
	Rating      float64        `gorm:"not null" json:"rating"`
}

// TableName keeps the historical table name
func (RatingLog) TableName() string {
	return "ratings_log"
}
