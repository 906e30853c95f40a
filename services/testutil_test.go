package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own SQLite database with the full schema
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.FacultyDetail{},
		&model.StudentDetail{},
		&model.Tag{},
		&model.TopicTag{},
		&model.UserTag{},
		&model.Topic{},
		&model.Participant{},
		&model.ParticipantLog{},
		&model.RatingLog{},
		&model.ReportLog{},
		&model.CronJobLog{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role, username string) *model.User {
	t.Helper()

	user := &model.User{
		FirebaseUID: "uid-" + username,
		Username:    username,
		FirstName:   "Test",
		LastName:    username,
		Email:       username + "@example.edu",
		Role:        role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTopic(t *testing.T, db *gorm.DB, creatorID uint, vacancies int, start, end time.Time) *model.Topic {
	t.Helper()

	topic := &model.Topic{
		Title:          "Graph Neural Networks",
		Description:    "Research assistantship",
		Vacancies:      vacancies,
		TotalVacancies: vacancies,
		StartDate:      start,
		EndDate:        end,
		CreatorID:      creatorID,
		Status:         model.TopicStatusInactive,
	}
	require.NoError(t, db.Create(topic).Error)
	return topic
}

// fixedClock pins a service clock to a known instant
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
