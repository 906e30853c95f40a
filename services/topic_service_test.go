package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTopicWithTagsAndDocument(t *testing.T) {
	db := openTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewTopicService(db, store)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	tag := model.Tag{Name: "machine-learning"}
	require.NoError(t, db.Create(&tag).Error)

	doc := []byte("%PDF-1.4 test content")
	topic, err := svc.Create(context.Background(), CreateTopicInput{
		Title:       "Federated Learning",
		Description: "Privacy-preserving training",
		Vacancies:   3,
		StartDate:   time.Now().AddDate(0, 0, 7),
		EndDate:     time.Now().AddDate(0, 2, 0),
		TagIDs:      []uint{tag.ID},
		Document:    doc,
		CreatorID:   faculty.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, model.TopicStatusInactive, topic.Status)
	assert.Equal(t, 3, topic.Vacancies)
	assert.Equal(t, 3, topic.TotalVacancies)
	assert.NotEmpty(t, topic.DocumentKey)

	var tagCount int64
	require.NoError(t, db.Model(&model.TopicTag{}).Where("topic_id = ?", topic.ID).Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount)

	// The document must be retrievable through the topic ID alone
	fetched, err := svc.GetDocument(context.Background(), topic.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, fetched)
}

func TestCreateTopicFailureLeavesNoOrphanDocument(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	svc := NewTopicService(db, store)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")

	// A tag association against a nonexistent tag ID is fine in SQLite, so
	// force the rollback through a duplicate topic-tag primary key instead.
	tag := model.Tag{Name: "robotics"}
	require.NoError(t, db.Create(&tag).Error)

	_, err = svc.Create(context.Background(), CreateTopicInput{
		Title:       "Swarm Robotics",
		Description: "Multi-agent control",
		Vacancies:   2,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 1, 0),
		TagIDs:      []uint{tag.ID, tag.ID}, // duplicate association fails the insert
		Document:    []byte("%PDF-1.4 orphan check"),
		CreatorID:   faculty.ID,
	})
	require.Error(t, err)

	var topicCount int64
	require.NoError(t, db.Model(&model.Topic{}).Count(&topicCount).Error)
	assert.EqualValues(t, 0, topicCount)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetDocumentMissing(t *testing.T) {
	db := openTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewTopicService(db, store)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	topic := seedTopic(t, db, faculty.ID, 1, time.Now(), time.Now().AddDate(0, 1, 0))

	_, err = svc.GetDocument(context.Background(), topic.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.GetDocument(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestStartTopic(t *testing.T) {
	db := openTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewTopicService(db, store)
	participants := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	s1 := seedUser(t, db, model.RoleStudent, "stud1")
	s2 := seedUser(t, db, model.RoleStudent, "stud2")

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	topic := seedTopic(t, db, faculty.ID, 2, start, end)

	for _, s := range []*model.User{s1, s2} {
		require.NoError(t, participants.Apply(context.Background(), topic.ID, s.ID))
		_, err := participants.Decide(context.Background(), topic.ID, s.ID, model.ParticipantStatusAccepted, faculty.ID, "")
		require.NoError(t, err)
	}

	svc.now = fixedClock(start.AddDate(0, 0, 1))
	require.NoError(t, svc.Start(context.Background(), topic.ID, faculty.ID))

	var fresh model.Topic
	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, model.TopicStatusActive, fresh.Status)

	var inProgress int64
	require.NoError(t, db.Model(&model.Participant{}).
		Where("topic_id = ? AND status = ?", topic.ID, model.ParticipantStatusInProgress).
		Count(&inProgress).Error)
	assert.EqualValues(t, 2, inProgress)

	var logs int64
	require.NoError(t, db.Model(&model.ParticipantLog{}).
		Where("topic_id = ? AND change_reason = ?", topic.ID, "Topic started by faculty").
		Count(&logs).Error)
	assert.EqualValues(t, 2, logs)
}

func TestStartTopicPreconditionFailuresMutateNothing(t *testing.T) {
	db := openTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewTopicService(db, store)
	participants := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	student := seedUser(t, db, model.RoleStudent, "stud1")

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	topic := seedTopic(t, db, faculty.ID, 2, start, start.AddDate(0, 3, 0))

	require.NoError(t, participants.Apply(context.Background(), topic.ID, student.ID))
	_, err = participants.Decide(context.Background(), topic.ID, student.ID, model.ParticipantStatusAccepted, faculty.ID, "")
	require.NoError(t, err)

	// Before the start date
	svc.now = fixedClock(start.AddDate(0, 0, -1))
	assert.ErrorIs(t, svc.Start(context.Background(), topic.ID, faculty.ID), ErrBeforeStartDate)

	// After the start date but with an unfilled vacancy
	svc.now = fixedClock(start.AddDate(0, 0, 1))
	assert.ErrorIs(t, svc.Start(context.Background(), topic.ID, faculty.ID), ErrVacanciesNotFilled)

	// Nothing moved
	var fresh model.Topic
	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, model.TopicStatusInactive, fresh.Status)

	var p model.Participant
	require.NoError(t, db.Where("topic_id = ?", topic.ID).First(&p).Error)
	assert.Equal(t, model.ParticipantStatusAccepted, p.Status)
}

func TestStartTopicRequiresInactive(t *testing.T) {
	db := openTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewTopicService(db, store)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	topic := seedTopic(t, db, faculty.ID, 1, time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 1, 0))
	require.NoError(t, db.Model(&model.Topic{}).Where("id = ?", topic.ID).
		Update("status", model.TopicStatusActive).Error)

	assert.ErrorIs(t, svc.Start(context.Background(), topic.ID, faculty.ID), ErrTopicNotInactive)
}

func TestCompleteTopic(t *testing.T) {
	db := openTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewTopicService(db, store)
	participants := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	student := seedUser(t, db, model.RoleStudent, "stud1")

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	topic := seedTopic(t, db, faculty.ID, 1, start, end)

	require.NoError(t, participants.Apply(context.Background(), topic.ID, student.ID))
	_, err = participants.Decide(context.Background(), topic.ID, student.ID, model.ParticipantStatusAccepted, faculty.ID, "")
	require.NoError(t, err)

	svc.now = fixedClock(start.AddDate(0, 0, 1))
	require.NoError(t, svc.Start(context.Background(), topic.ID, faculty.ID))

	// Too early to complete
	assert.ErrorIs(t, svc.Complete(context.Background(), topic.ID, faculty.ID), ErrBeforeEndDate)

	svc.now = fixedClock(end.AddDate(0, 0, 1))
	require.NoError(t, svc.Complete(context.Background(), topic.ID, faculty.ID))

	var fresh model.Topic
	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, model.TopicStatusCompleted, fresh.Status)

	var p model.Participant
	require.NoError(t, db.Where("topic_id = ?", topic.ID).First(&p).Error)
	assert.Equal(t, model.ParticipantStatusCompleted, p.Status)

	var logs int64
	require.NoError(t, db.Model(&model.ParticipantLog{}).
		Where("topic_id = ? AND change_reason = ?", topic.ID, "Topic completed by faculty").
		Count(&logs).Error)
	assert.EqualValues(t, 1, logs)
}

func TestCompleteTopicRequiresActive(t *testing.T) {
	db := openTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewTopicService(db, store)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	topic := seedTopic(t, db, faculty.ID, 1, time.Now().AddDate(0, -2, 0), time.Now().AddDate(0, -1, 0))

	assert.ErrorIs(t, svc.Complete(context.Background(), topic.ID, faculty.ID), ErrTopicNotActive)
}
