package cron

import (
	"context"
	"fmt"
	"time"
)

// SendFacultyReports runs the daily report pass over all faculty users.
// The report-log guard inside the service skips anyone already covered
// today, so a restart after the scheduled run does not double-send.
func (m *CronManager) SendFacultyReports() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "send_faculty_reports"

	sent, err := m.reports.SendReports(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to send faculty reports: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Sent %d faculty reports", sent))
}

// RecoverMissedReports re-runs the report pass for faculty whose most recent
// report-log entry is not dated today, including the never-sent case. Same
// compile/send/log sequence as the daily run.
func (m *CronManager) RecoverMissedReports() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "recover_missed_reports"

	sent, err := m.reports.SendReports(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to recover missed reports: %w", err))
		return
	}

	if sent == 0 {
		m.logJobComplete(jobName, "No missed reports")
		return
	}
	m.logJobComplete(jobName, fmt.Sprintf("Recovered %d missed reports", sent))
}
