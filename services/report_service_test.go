package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeMailer records deliveries instead of talking to an SMTP server
type fakeMailer struct {
	sent []string // recipient emails in send order
	fail bool
}

func (m *fakeMailer) SendReport(toEmail, recipientName string, pdf []byte) error {
	if m.fail {
		return assert.AnError
	}
	m.sent = append(m.sent, toEmail)
	return nil
}

func seedFacultyWithProfile(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	faculty := seedUser(t, db, model.RoleFaculty, username)
	require.NoError(t, db.Create(&model.FacultyDetail{
		UserID:     faculty.ID,
		Department: "Computer Science",
	}).Error)
	return faculty
}

func TestSendReportsDeliversAndLogs(t *testing.T) {
	db := openTestDB(t)
	mailer := &fakeMailer{}
	svc := NewReportService(db, mailer)

	f1 := seedFacultyWithProfile(t, db, "prof1")
	f2 := seedFacultyWithProfile(t, db, "prof2")
	seedUser(t, db, model.RoleStudent, "stud1") // students never get reports

	sent, err := svc.SendReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []string{f1.Email, f2.Email}, mailer.sent)

	var logs int64
	require.NoError(t, db.Model(&model.ReportLog{}).Count(&logs).Error)
	assert.EqualValues(t, 2, logs)
}

func TestSendReportsIsIdempotentWithinADay(t *testing.T) {
	db := openTestDB(t)
	mailer := &fakeMailer{}
	svc := NewReportService(db, mailer)

	seedFacultyWithProfile(t, db, "prof1")

	sent, err := svc.SendReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// The recovery pass later the same day must deliver nothing
	sent, err = svc.SendReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Len(t, mailer.sent, 1)
}

func TestSendReportsResumesNextDay(t *testing.T) {
	db := openTestDB(t)
	mailer := &fakeMailer{}
	svc := NewReportService(db, mailer)

	faculty := seedFacultyWithProfile(t, db, "prof1")

	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Create(&model.ReportLog{
		FacultyID:  faculty.ID,
		ReportDate: datatypes.Date(yesterday),
		Status:     "success",
	}).Error)

	sent, err := svc.SendReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestSendReportsSkipsFacultyOnMailFailure(t *testing.T) {
	db := openTestDB(t)
	mailer := &fakeMailer{fail: true}
	svc := NewReportService(db, mailer)

	seedFacultyWithProfile(t, db, "prof1")

	sent, err := svc.SendReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	// No send means no ledger row, so the recovery pass will retry
	var logs int64
	require.NoError(t, db.Model(&model.ReportLog{}).Count(&logs).Error)
	assert.EqualValues(t, 0, logs)

	mailer.fail = false
	sent, err = svc.SendReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestBuildPDFContainsReportStructure(t *testing.T) {
	db := openTestDB(t)
	svc := NewReportService(db, &fakeMailer{})

	faculty := seedFacultyWithProfile(t, db, "prof1")
	student := seedUser(t, db, model.RoleStudent, "stud1")
	topic := seedTopic(t, db, faculty.ID, 1, time.Now(), time.Now().AddDate(0, 1, 0))
	require.NoError(t, db.Create(&model.Participant{
		TopicID:         topic.ID,
		StudentID:       student.ID,
		Status:          model.ParticipantStatusAccepted,
		ApplicationDate: time.Now(),
	}).Error)

	data, err := svc.FetchFacultyData(context.Background(), faculty.ID)
	require.NoError(t, err)
	require.NotNil(t, data)
	require.Len(t, data.Topics, 1)
	assert.Len(t, data.Topics[0].Participants, 1)

	pdf, err := svc.BuildPDF(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestFetchFacultyDataMissingFaculty(t *testing.T) {
	db := openTestDB(t)
	svc := NewReportService(db, &fakeMailer{})

	student := seedUser(t, db, model.RoleStudent, "stud1")

	data, err := svc.FetchFacultyData(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = svc.FetchFacultyData(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, data)
}
