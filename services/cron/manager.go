package cron

import (
	"log"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/services"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron    *cron.Cron
	db      *gorm.DB
	reports *services.ReportService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, reports *services.ReportService) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:    c,
		db:      db,
		reports: reports,
	}
}

// Start registers all jobs, runs the startup recovery pass, and starts the
// scheduler.
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	// Recovery pass for reports missed while the process was down. Runs off
	// the request path; the report-log guard keeps it idempotent.
	go func() {
		m.logJobStart("recover_missed_reports")
		m.RecoverMissedReports()
	}()

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Daily at 10 AM: send faculty reports
	_, err := m.cron.AddFunc("0 0 10 * * *", func() {
		m.logJobStart("send_faculty_reports")
		m.SendFacultyReports()
	})
	if err != nil {
		return err
	}

	// Every 5 minutes: recover reports missed by the daily run
	_, err = m.cron.AddFunc("0 */5 * * * *", func() {
		m.logJobStart("recover_missed_reports")
		m.RecoverMissedReports()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
		Metadata:  datatypes.JSON([]byte("{}")),
	}
	m.db.Create(&cronLog)
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": time.Now(),
			"message":      message,
		})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    err.Error(),
		})
}
