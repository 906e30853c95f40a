package model

import (
	"time"

	"gorm.io/gorm"
)

// TopicStatus represents the lifecycle state of a topic
type TopicStatus string

const (
	TopicStatusInactive  TopicStatus = "inactive"
	TopicStatusActive    TopicStatus = "active"
	TopicStatusCompleted TopicStatus = "completed"
)

// Topic represents a faculty-posted research opportunity.
// Vacancies is always TotalVacancies minus the count of accepted participants;
// it is restored by full recount after every decision, never by arithmetic.
type Topic struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Vacancies      int            `gorm:"not null" json:"vacancies"`
	TotalVacancies int            `gorm:"not null" json:"total_vacancies"`
	StartDate      time.Time      `gorm:"not null" json:"start_date"`
	EndDate        time.Time      `gorm:"not null" json:"end_date"`
	Compensation   string         `gorm:"type:varchar(100)" json:"compensation"`
	CreatorID      uint           `gorm:"index;not null" json:"creator_id"`
	Status         TopicStatus    `gorm:"type:varchar(20);not null;default:'inactive'" json:"status"`
	Approved       bool           `gorm:"default:false" json:"approved"`
	DocumentKey    string         `gorm:"type:varchar(64)" json:"document_key,omitempty"` // object storage key of the attached PDF

	// Relationships
	Creator      User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Tags         []TopicTag    `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Participants []Participant `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}
