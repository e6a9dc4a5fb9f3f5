package cron

import (
	"context"
	"sync"
	"time"

	"github.com/iman-school/caseload/database"
	"github.com/iman-school/caseload/utils"
	"github.com/robfig/cron/v3"
)

const (
	jobBackupSlot     = "backup_slot"
	jobProbeGenerator = "probe_generator"

	// BackupSchedule runs daily at 2 AM
	BackupSchedule = "0 0 2 * * *"
	// ProbeSchedule runs every 30 minutes
	ProbeSchedule = "0 */30 * * * *"
)

// HealthProber reports whether the text generation endpoint answers
type HealthProber interface {
	HealthCheck(ctx context.Context) error
}

// JobStatus is the outcome of the latest run of a job
type JobStatus struct {
	JobName     string    `json:"jobName"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
	Message     string    `json:"message,omitempty"`
	ErrorMsg    string    `json:"error,omitempty"`
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	storage   database.SlotStorage
	slot      string
	generator HealthProber
	logger    *utils.Logger
	now       func() time.Time

	mu       sync.RWMutex
	statuses map[string]JobStatus
}

// NewCronManager creates a new cron manager
func NewCronManager(storage database.SlotStorage, slot string, generator HealthProber, logger *utils.Logger) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		storage:   storage,
		slot:      slot,
		generator: generator,
		logger:    logger.With("component", "cron"),
		now:       time.Now,
		statuses:  make(map[string]JobStatus),
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	m.logger.Info("starting cron jobs")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	m.logger.Info("cron jobs started", "entries", len(m.cron.Entries()))
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (m *CronManager) Stop() {
	m.logger.Info("stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Daily at 2 AM: copy the student slot aside
	_, err := m.cron.AddFunc(BackupSchedule, func() {
		m.logJobStart(jobBackupSlot)
		m.BackupSlot()
	})
	if err != nil {
		return err
	}

	// 2. Every 30 minutes: probe the generator
	if m.generator != nil {
		_, err = m.cron.AddFunc(ProbeSchedule, func() {
			m.logJobStart(jobProbeGenerator)
			m.ProbeGenerator()
		})
		if err != nil {
			return err
		}
	}

	m.logger.Info("all cron jobs registered")
	return nil
}

// Statuses returns the latest run of every job that has run
func (m *CronManager) Statuses() []JobStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]JobStatus, 0, len(m.statuses))
	for _, name := range []string{jobBackupSlot, jobProbeGenerator} {
		if st, ok := m.statuses[name]; ok {
			out = append(out, st)
		}
	}
	return out
}

// logJobStart records the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	m.logger.Debug("cron job started", "job", jobName)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[jobName] = JobStatus{
		JobName:   jobName,
		Status:    "running",
		StartedAt: m.now(),
	}
}

// logJobComplete records successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	m.logger.Info("cron job completed", "job", jobName, "message", message)
	m.finish(jobName, "completed", message, "")
}

// logJobError records a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	m.logger.Error("cron job failed", "job", jobName, "error", err)
	m.finish(jobName, "failed", "", err.Error())
}

func (m *CronManager) finish(jobName, status, message, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.statuses[jobName]
	if !ok {
		st = JobStatus{JobName: jobName, StartedAt: m.now()}
	}
	st.Status = status
	st.CompletedAt = m.now()
	st.Message = message
	st.ErrorMsg = errMsg
	m.statuses[jobName] = st
}
