package services

import (
	"context"
	"testing"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreatesParticipantAndLog(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	student := seedUser(t, db, model.RoleStudent, "stud1")
	topic := seedTopic(t, db, faculty.ID, 2, time.Now(), time.Now().AddDate(0, 1, 0))

	require.NoError(t, svc.Apply(context.Background(), topic.ID, student.ID))

	var p model.Participant
	require.NoError(t, db.Where("topic_id = ? AND student_id = ?", topic.ID, student.ID).First(&p).Error)
	assert.Equal(t, model.ParticipantStatusApplied, p.Status)
	assert.False(t, p.ApplicationDate.IsZero())

	var entry model.ParticipantLog
	require.NoError(t, db.Where("topic_id = ? AND student_id = ?", topic.ID, student.ID).First(&entry).Error)
	assert.Empty(t, entry.OldStatus)
	assert.Equal(t, model.ParticipantStatusApplied, entry.NewStatus)
	assert.Equal(t, student.ID, entry.ChangedBy)
	assert.Equal(t, "Applied for the topic", entry.ChangeReason)
}

func TestApplyTwiceIsConflict(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	student := seedUser(t, db, model.RoleStudent, "stud1")
	topic := seedTopic(t, db, faculty.ID, 1, time.Now(), time.Now().AddDate(0, 1, 0))

	require.NoError(t, svc.Apply(context.Background(), topic.ID, student.ID))
	err := svc.Apply(context.Background(), topic.ID, student.ID)
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	var count int64
	require.NoError(t, db.Model(&model.Participant{}).Where("topic_id = ?", topic.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplyToMissingTopic(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	student := seedUser(t, db, model.RoleStudent, "stud1")
	err := svc.Apply(context.Background(), 9999, student.ID)
	assert.ErrorIs(t, err, ErrTopicNotFound)
}

func TestDecideAcceptRecountsVacancies(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	s1 := seedUser(t, db, model.RoleStudent, "stud1")
	s2 := seedUser(t, db, model.RoleStudent, "stud2")
	topic := seedTopic(t, db, faculty.ID, 2, time.Now(), time.Now().AddDate(0, 1, 0))

	require.NoError(t, svc.Apply(context.Background(), topic.ID, s1.ID))
	require.NoError(t, svc.Apply(context.Background(), topic.ID, s2.ID))

	changed, err := svc.Decide(context.Background(), topic.ID, s1.ID, model.ParticipantStatusAccepted, faculty.ID, "Strong fit")
	require.NoError(t, err)
	assert.True(t, changed)

	var fresh model.Topic
	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, 1, fresh.Vacancies)

	changed, err = svc.Decide(context.Background(), topic.ID, s2.ID, model.ParticipantStatusAccepted, faculty.ID, "Strong fit")
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, 0, fresh.Vacancies)
}

func TestDecideRejectAfterAcceptRestoresVacancy(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	student := seedUser(t, db, model.RoleStudent, "stud1")
	topic := seedTopic(t, db, faculty.ID, 2, time.Now(), time.Now().AddDate(0, 1, 0))

	require.NoError(t, svc.Apply(context.Background(), topic.ID, student.ID))

	_, err := svc.Decide(context.Background(), topic.ID, student.ID, model.ParticipantStatusAccepted, faculty.ID, "")
	require.NoError(t, err)

	var fresh model.Topic
	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, 1, fresh.Vacancies)

	_, err = svc.Decide(context.Background(), topic.ID, student.ID, model.ParticipantStatusRejected, faculty.ID, "Changed decision")
	require.NoError(t, err)

	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, 2, fresh.Vacancies)
}

func TestDecideNoOpSkipsUpdateAndLog(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	student := seedUser(t, db, model.RoleStudent, "stud1")
	topic := seedTopic(t, db, faculty.ID, 1, time.Now(), time.Now().AddDate(0, 1, 0))

	require.NoError(t, svc.Apply(context.Background(), topic.ID, student.ID))

	_, err := svc.Decide(context.Background(), topic.ID, student.ID, model.ParticipantStatusAccepted, faculty.ID, "")
	require.NoError(t, err)

	var before int64
	require.NoError(t, db.Model(&model.ParticipantLog{}).Count(&before).Error)

	changed, err := svc.Decide(context.Background(), topic.ID, student.ID, model.ParticipantStatusAccepted, faculty.ID, "")
	require.NoError(t, err)
	assert.False(t, changed)

	var after int64
	require.NoError(t, db.Model(&model.ParticipantLog{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestDecideInvalidStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	_, err := svc.Decide(context.Background(), 1, 1, model.ParticipantStatusInProgress, 1, "")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestDecideMissingParticipant(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	topic := seedTopic(t, db, faculty.ID, 1, time.Now(), time.Now().AddDate(0, 1, 0))

	_, err := svc.Decide(context.Background(), topic.ID, 9999, model.ParticipantStatusAccepted, faculty.ID, "")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestDecideOverCapacityRollsBack(t *testing.T) {
	db := openTestDB(t)
	svc := NewParticipantService(db)

	faculty := seedUser(t, db, model.RoleFaculty, "prof1")
	topic := seedTopic(t, db, faculty.ID, 2, time.Now(), time.Now().AddDate(0, 1, 0))

	students := make([]*model.User, 3)
	for i, name := range []string{"stud1", "stud2", "stud3"} {
		students[i] = seedUser(t, db, model.RoleStudent, name)
		require.NoError(t, svc.Apply(context.Background(), topic.ID, students[i].ID))
	}

	for _, s := range students[:2] {
		_, err := svc.Decide(context.Background(), topic.ID, s.ID, model.ParticipantStatusAccepted, faculty.ID, "")
		require.NoError(t, err)
	}

	_, err := svc.Decide(context.Background(), topic.ID, students[2].ID, model.ParticipantStatusAccepted, faculty.ID, "")
	assert.ErrorIs(t, err, ErrOverCapacity)

	// The rejected decision must leave no trace: status, vacancy count and
	// log count all unchanged.
	var third model.Participant
	require.NoError(t, db.Where("topic_id = ? AND student_id = ?", topic.ID, students[2].ID).First(&third).Error)
	assert.Equal(t, model.ParticipantStatusApplied, third.Status)

	var fresh model.Topic
	require.NoError(t, db.First(&fresh, topic.ID).Error)
	assert.Equal(t, 0, fresh.Vacancies)

	var logs int64
	require.NoError(t, db.Model(&model.ParticipantLog{}).
		Where("student_id = ? AND new_status = ?", students[2].ID, model.ParticipantStatusAccepted).
		Count(&logs).Error)
	assert.EqualValues(t, 0, logs)
}
