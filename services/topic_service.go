package services

import (
	"context"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TopicService owns topic creation and the topic lifecycle state machine
// (inactive -> active -> completed, never backwards).
type TopicService struct {
	db    *gorm.DB
	store storage.Store
	now   func() time.Time
}

// NewTopicService creates a new topic service
func NewTopicService(db *gorm.DB, store storage.Store) *TopicService {
	return &TopicService{
		db:    db,
		store: store,
		now:   time.Now,
	}
}

// CreateTopicInput carries the validated fields for a new topic
type CreateTopicInput struct {
	Title        string
	Description  string
	Vacancies    int
	StartDate    time.Time
	EndDate      time.Time
	Compensation string
	TagIDs       []uint
	Document     []byte // optional PDF content, already validated
	CreatorID    uint
}

// Create inserts the topic and its tag associations in one transaction.
// The attached document is stored under a fresh UUID key recorded on the
// topic row; if the transaction rolls back the stored object is removed so
// no orphan is left behind.
func (s *TopicService) Create(ctx context.Context, in CreateTopicInput) (*model.Topic, error) {
	var documentKey string
	if len(in.Document) > 0 {
		documentKey = uuid.NewString() + ".pdf"
	}

	topic := model.Topic{
		Title:          in.Title,
		Description:    in.Description,
		Vacancies:      in.Vacancies,
		TotalVacancies: in.Vacancies,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Compensation:   in.Compensation,
		CreatorID:      in.CreatorID,
		Status:         model.TopicStatusInactive,
		Approved:       false,
		DocumentKey:    documentKey,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&topic).Error; err != nil {
			return err
		}

		for _, tagID := range in.TagIDs {
			if err := tx.Create(&model.TopicTag{TopicID: topic.ID, TagID: tagID}).Error; err != nil {
				return err
			}
		}

		if documentKey != "" {
			if err := s.store.Put(ctx, documentKey, in.Document, "application/pdf"); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if documentKey != "" {
			// The insert rolled back; the stored object must not outlive it.
			_ = s.store.Delete(ctx, documentKey)
		}
		return nil, err
	}

	return &topic, nil
}

// GetDocument resolves a topic's attached document from its ID alone
func (s *TopicService) GetDocument(ctx context.Context, topicID uint) ([]byte, error) {
	var topic model.Topic
	if err := s.db.WithContext(ctx).First(&topic, topicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	if topic.DocumentKey == "" {
		return nil, storage.ErrNotFound
	}

	return s.store.Get(ctx, topic.DocumentKey)
}

// Start transitions a topic from inactive to active. Preconditions: the
// current date has reached the start date and the accepted participant count
// equals the total vacancies. On success every accepted participant moves to
// in_progress with one audit log row each. A precondition failure mutates
// nothing.
func (s *TopicService) Start(ctx context.Context, topicID uint, facultyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic model.Topic
		if err := tx.First(&topic, topicID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTopicNotFound
			}
			return err
		}

		if topic.Status != model.TopicStatusInactive {
			return ErrTopicNotInactive
		}

		if s.now().Before(topic.StartDate) {
			return ErrBeforeStartDate
		}

		var accepted []model.Participant
		if err := tx.Where("topic_id = ? AND status = ?", topicID, model.ParticipantStatusAccepted).
			Find(&accepted).Error; err != nil {
			return err
		}

		if len(accepted) != topic.TotalVacancies {
			return ErrVacanciesNotFilled
		}

		if err := tx.Model(&model.Participant{}).
			Where("topic_id = ? AND status = ?", topicID, model.ParticipantStatusAccepted).
			Update("status", model.ParticipantStatusInProgress).Error; err != nil {
			return err
		}

		for _, p := range accepted {
			entry := model.ParticipantLog{
				TopicID:      topicID,
				StudentID:    p.StudentID,
				OldStatus:    model.ParticipantStatusAccepted,
				NewStatus:    model.ParticipantStatusInProgress,
				ChangedBy:    facultyID,
				ChangeReason: "Topic started by faculty",
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Topic{}).
			Where("id = ?", topicID).
			Update("status", model.TopicStatusActive).Error
	})
}

// Complete transitions a topic from active to completed once the end date has
// passed. Every in_progress participant moves to completed, each logged.
func (s *TopicService) Complete(ctx context.Context, topicID uint, facultyID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic model.Topic
		if err := tx.First(&topic, topicID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTopicNotFound
			}
			return err
		}

		if topic.Status != model.TopicStatusActive {
			return ErrTopicNotActive
		}

		if s.now().Before(topic.EndDate) {
			return ErrBeforeEndDate
		}

		var inProgress []model.Participant
		if err := tx.Where("topic_id = ? AND status = ?", topicID, model.ParticipantStatusInProgress).
			Find(&inProgress).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Participant{}).
			Where("topic_id = ? AND status = ?", topicID, model.ParticipantStatusInProgress).
			Update("status", model.ParticipantStatusCompleted).Error; err != nil {
			return err
		}

		for _, p := range inProgress {
			entry := model.ParticipantLog{
				TopicID:      topicID,
				StudentID:    p.StudentID,
				OldStatus:    model.ParticipantStatusInProgress,
				NewStatus:    model.ParticipantStatusCompleted,
				ChangedBy:    facultyID,
				ChangeReason: "Topic completed by faculty",
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Topic{}).
			Where("id = ?", topicID).
			Update("status", model.TopicStatusCompleted).Error
	})
}
