package model

import (
	"time"

	"gorm.io/datatypes"
)

// ReportLog is the idempotence ledger for the daily faculty report job:
// one row per faculty per day a report was successfully dispatched.
type ReportLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	FacultyID  uint           `gorm:"index:idx_faculty_report_date;not null" json:"faculty_id"`
	ReportDate datatypes.Date `gorm:"index:idx_faculty_report_date;not null" json:"report_date"`
	Status     string         `gorm:"type:varchar(20);not null" json:"status"` // success
}

// TableName keeps the historical table name
func (ReportLog) TableName() string {
	return "report_logs"
}
