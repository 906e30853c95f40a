package services

import (
	"context"
	"time"

	"github.com/collabity/collabity-api/model"
	"gorm.io/gorm"
)

// ParticipantService records applications and faculty accept/reject decisions
// and keeps the topic's remaining vacancy count consistent.
type ParticipantService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewParticipantService creates a new participant service
func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{
		db:  db,
		now: time.Now,
	}
}

// Apply records a student's application to a topic. A live (topic, student)
// row already existing is a conflict; otherwise the row is inserted with
// status applied and the transition is logged, all in one transaction.
func (s *ParticipantService) Apply(ctx context.Context, topicID, studentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic model.Topic
		if err := tx.First(&topic, topicID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTopicNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Participant{}).
			Where("topic_id = ? AND student_id = ?", topicID, studentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyApplied
		}

		participant := model.Participant{
			TopicID:         topicID,
			StudentID:       studentID,
			Status:          model.ParticipantStatusApplied,
			ApplicationDate: s.now(),
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}

		entry := model.ParticipantLog{
			TopicID:      topicID,
			StudentID:    studentID,
			NewStatus:    model.ParticipantStatusApplied,
			ChangedBy:    studentID,
			ChangeReason: "Applied for the topic",
		}
		return tx.Create(&entry).Error
	})
}

// Decide applies a faculty accept/reject decision. Returns changed=false on a
// no-op (requested status equals current status). The status update, the
// audit log row and the vacancy recount happen in one transaction; accepting
// past the topic's total vacancies is rejected as over capacity.
func (s *ParticipantService) Decide(ctx context.Context, topicID, studentID uint, newStatus model.ParticipantStatus, actorID uint, reason string) (bool, error) {
	if newStatus != model.ParticipantStatusAccepted && newStatus != model.ParticipantStatusRejected {
		return false, ErrInvalidDecision
	}

	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participant model.Participant
		if err := tx.Where("topic_id = ? AND student_id = ?", topicID, studentID).
			First(&participant).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrParticipantNotFound
			}
			return err
		}

		if participant.Status == newStatus {
			return nil
		}

		if err := tx.Model(&model.Participant{}).
			Where("topic_id = ? AND student_id = ?", topicID, studentID).
			Update("status", newStatus).Error; err != nil {
			return err
		}

		entry := model.ParticipantLog{
			TopicID:      topicID,
			StudentID:    studentID,
			OldStatus:    participant.Status,
			NewStatus:    newStatus,
			ChangedBy:    actorID,
			ChangeReason: reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// The accepted set changed whenever either side of the transition is
		// "accepted"; restore the invariant by full recount, not arithmetic.
		if newStatus == model.ParticipantStatusAccepted || participant.Status == model.ParticipantStatusAccepted {
			accepted, err := s.recountVacancies(tx, topicID)
			if err != nil {
				return err
			}

			if newStatus == model.ParticipantStatusAccepted {
				var topic model.Topic
				if err := tx.First(&topic, topicID).Error; err != nil {
					return err
				}
				if int(accepted) > topic.TotalVacancies {
					return ErrOverCapacity
				}
			}
		}

		changed = true
		return nil
	})

	return changed, err
}

// recountVacancies re-derives Topic.Vacancies from the full accepted count.
// Returns the accepted count so callers can apply capacity checks.
func (s *ParticipantService) recountVacancies(tx *gorm.DB, topicID uint) (int64, error) {
	var accepted int64
	if err := tx.Model(&model.Participant{}).
		Where("topic_id = ? AND status = ?", topicID, model.ParticipantStatusAccepted).
		Count(&accepted).Error; err != nil {
		return 0, err
	}

	err := tx.Model(&model.Topic{}).
		Where("id = ?", topicID).
		Update("vacancies", gorm.Expr("total_vacancies - ?", accepted)).Error
	return accepted, err
}
