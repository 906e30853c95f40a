package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportService compiles per-faculty status reports and delivers them by
// email. The report_logs table is the idempotence ledger: one row per faculty
// per day a report went out, checked before every send.
type ReportService struct {
	db     *gorm.DB
	mailer Mailer
	now    func() time.Time
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, mailer Mailer) *ReportService {
	return &ReportService{
		db:     db,
		mailer: mailer,
		now:    time.Now,
	}
}

// FacultyReportData is the compiled content of one faculty's daily report
type FacultyReportData struct {
	Faculty model.User
	Detail  *model.FacultyDetail
	Topics  []TopicReportEntry
}

// TopicReportEntry is one topic plus its participants in the report
type TopicReportEntry struct {
	Topic        model.Topic
	Participants []model.Participant
}

// SendReports compiles, emails and logs a report for every non-deleted
// faculty user whose report has not yet gone out today. Each faculty is its
// own unit of work: a failure is logged and does not block the rest.
// Returns the number of reports sent.
func (s *ReportService) SendReports(ctx context.Context) (int, error) {
	var facultyIDs []uint
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", model.RoleFaculty).
		Pluck("id", &facultyIDs).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, facultyID := range facultyIDs {
		ok, err := s.sendOne(ctx, facultyID)
		if err != nil {
			log.Printf("Failed to send report to faculty_id=%d: %v", facultyID, err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// sendOne runs the compile/send/log sequence for a single faculty, guarded
// by the report log. Ordering is send succeeds, then log: if logging fails
// after a successful send, the next pass may deliver a duplicate copy, which
// is the accepted failure mode (a copy may repeat, never go missing).
func (s *ReportService) sendOne(ctx context.Context, facultyID uint) (bool, error) {
	alreadySent, err := s.sentToday(ctx, facultyID)
	if err != nil {
		return false, err
	}
	if alreadySent {
		return false, nil
	}

	data, err := s.FetchFacultyData(ctx, facultyID)
	if err != nil {
		return false, err
	}
	if data == nil {
		// User row exists but the faculty profile is gone; nothing to report.
		return false, nil
	}

	pdf, err := s.BuildPDF(data)
	if err != nil {
		return false, err
	}

	name := fmt.Sprintf("%s %s", data.Faculty.FirstName, data.Faculty.LastName)
	if err := s.mailer.SendReport(data.Faculty.Email, name, pdf); err != nil {
		return false, err
	}

	return true, s.logReportSent(ctx, facultyID)
}

// sentToday reports whether the most recent report log for a faculty is
// dated today.
func (s *ReportService) sentToday(ctx context.Context, facultyID uint) (bool, error) {
	var last model.ReportLog
	err := s.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("report_date DESC").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	today := s.now().Format("2006-01-02")
	return time.Time(last.ReportDate).Format("2006-01-02") == today, nil
}

// logReportSent appends today's ledger row for a faculty
func (s *ReportService) logReportSent(ctx context.Context, facultyID uint) error {
	entry := model.ReportLog{
		FacultyID:  facultyID,
		ReportDate: datatypes.Date(s.now()),
		Status:     "success",
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// FetchFacultyData loads a faculty user with their topics and participants.
// Returns nil (no error) when the faculty profile does not exist.
func (s *ReportService) FetchFacultyData(ctx context.Context, facultyID uint) (*FacultyReportData, error) {
	var faculty model.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND role = ?", facultyID, model.RoleFaculty).
		First(&faculty).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	data := &FacultyReportData{Faculty: faculty}

	var detail model.FacultyDetail
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", facultyID).
		First(&detail).Error; err == nil {
		data.Detail = &detail
	}

	var topics []model.Topic
	if err := s.db.WithContext(ctx).
		Where("creator_id = ?", facultyID).
		Order("created_at").
		Find(&topics).Error; err != nil {
		return nil, err
	}

	for _, topic := range topics {
		var participants []model.Participant
		if err := s.db.WithContext(ctx).
			Preload("Student").
			Where("topic_id = ?", topic.ID).
			Find(&participants).Error; err != nil {
			return nil, err
		}
		data.Topics = append(data.Topics, TopicReportEntry{
			Topic:        topic,
			Participants: participants,
		})
	}

	return data, nil
}

// BuildPDF renders the compiled report data into a PDF document
func (s *ReportService) BuildPDF(data *FacultyReportData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "Faculty Daily Report", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 7, fmt.Sprintf("Name: %s %s", data.Faculty.FirstName, data.Faculty.LastName), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("Email: %s", data.Faculty.Email), "", 1, "L", false, 0, "")
	if data.Detail != nil {
		doc.CellFormat(0, 7, fmt.Sprintf("Department: %s", data.Detail.Department), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 7, fmt.Sprintf("Designation: %s", data.Detail.Designation), "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	if len(data.Topics) == 0 {
		doc.CellFormat(0, 7, "No topics to report.", "", 1, "L", false, 0, "")
	}

	for i, entry := range data.Topics {
		doc.SetFont("Helvetica", "B", 13)
		doc.CellFormat(0, 8, fmt.Sprintf("Topic #%d: %s", i+1, entry.Topic.Title), "", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 6, fmt.Sprintf("Start: %s", entry.Topic.StartDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 6, fmt.Sprintf("End: %s", entry.Topic.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 6, fmt.Sprintf("Status: %s", entry.Topic.Status), "", 1, "L", false, 0, "")

		doc.CellFormat(0, 6, "Participants:", "", 1, "L", false, 0, "")
		for _, p := range entry.Participants {
			doc.CellFormat(0, 6,
				fmt.Sprintf("  - %s %s (%s)", p.Student.FirstName, p.Student.LastName, p.Status),
				"", 1, "L", false, 0, "")
		}
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
