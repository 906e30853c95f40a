package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// User represents a registered user in the system. Identity (token issuance)
// lives in the external gateway; this row is keyed by the gateway UID.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	FirebaseUID  string         `gorm:"uniqueIndex;not null;type:varchar(128)" json:"firebase_uid"`
	Username     string         `gorm:"uniqueIndex;not null;type:varchar(64)" json:"username"`
	FirstName    string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Role         string         `gorm:"type:varchar(20);not null;default:'student'" json:"role"` // student, faculty, admin
	PhoneNumber  string         `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Address      string         `gorm:"type:varchar(255)" json:"address,omitempty"`
	LinkedinLink string         `gorm:"type:varchar(255)" json:"linkedin_link,omitempty"`
	Gender       string         `gorm:"type:varchar(20)" json:"gender,omitempty"`
	DateOfBirth  *time.Time     `json:"date_of_birth,omitempty"`
	Rating       float64        `gorm:"default:0" json:"rating"`
	Raters       int            `gorm:"default:0" json:"raters"`
	Approved     bool           `gorm:"default:false" json:"approved"`

	// Relationships
	Topics         []Topic        `gorm:"foreignKey:CreatorID" json:"-"`
	Tags           []UserTag      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FacultyDetail  *FacultyDetail `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"faculty_detail,omitempty"`
	StudentDetail  *StudentDetail `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student_detail,omitempty"`
	Participations []Participant  `gorm:"foreignKey:StudentID" json:"-"`
}

// FacultyDetail holds the faculty-specific profile fields
type FacultyDetail struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	UserID            uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Department        string         `gorm:"type:varchar(100)" json:"department"`
	Designation       string         `gorm:"type:varchar(100)" json:"designation"`
	CoursesTeaching   string         `gorm:"type:text" json:"courses_teaching"`
	ResearchInterests string         `gorm:"type:text" json:"research_interests"`
	OfficeLocation    string         `gorm:"type:varchar(100)" json:"office_location"`
	ContactNumber     string         `gorm:"type:varchar(20)" json:"contact_number"`
	GoogleScholarLink string         `gorm:"type:varchar(255)" json:"google_scholar_link"`
}

// StudentDetail holds the student-specific profile fields
type StudentDetail struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	UserID           uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	EnrollmentNumber string         `gorm:"type:varchar(50)" json:"enrollment_number"`
	Major            string         `gorm:"type:varchar(100)" json:"major"`
	AcademicYear     int            `json:"academic_year"`
	GPA              float64        `json:"gpa"`
}
