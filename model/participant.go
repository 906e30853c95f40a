package model

import (
	"time"

	"gorm.io/gorm"
)

// ParticipantStatus represents a student's engagement state with a topic
type ParticipantStatus string

const (
	ParticipantStatusApplied    ParticipantStatus = "applied"
	ParticipantStatusAccepted   ParticipantStatus = "accepted"
	ParticipantStatusRejected   ParticipantStatus = "rejected"
	ParticipantStatusInProgress ParticipantStatus = "in_progress"
	ParticipantStatusCompleted  ParticipantStatus = "completed"
)

// Participant is the join entity representing one student's application and
// engagement state with one topic. One live row per (topic, student) pair.
type Participant struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
	TopicID         uint              `gorm:"index:idx_topic_student,unique;not null" json:"topic_id"`
	StudentID       uint              `gorm:"index:idx_topic_student,unique;not null" json:"student_id"`
	Status          ParticipantStatus `gorm:"type:varchar(20);not null;default:'applied'" json:"status"`
	ApplicationDate time.Time         `gorm:"not null" json:"application_date"`

	// Relationships
	Topic   Topic `gorm:"foreignKey:TopicID" json:"-"`
	Student User  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// ParticipantLog is the append-only audit trail of participant status
// transitions. Rows are written once and never updated or deleted.
type ParticipantLog struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time         `json:"created_at"`
	TopicID      uint              `gorm:"index;not null" json:"topic_id"`
	StudentID    uint              `gorm:"index;not null" json:"student_id"`
	OldStatus    ParticipantStatus `gorm:"type:varchar(20)" json:"old_status"` // empty on first application
	NewStatus    ParticipantStatus `gorm:"type:varchar(20);not null" json:"new_status"`
	ChangedBy    uint              `gorm:"not null" json:"changed_by"`
	ChangeReason string            `gorm:"type:varchar(255)" json:"change_reason"`
}

// TableName keeps the historical table name
func (ParticipantLog) TableName() string {
	return "participant_logs"
}
