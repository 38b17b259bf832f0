package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/icognita1702/festalog/pkg/logger"
)

// notificationGenerator is the minimal interface the scheduler needs. It
// matches the Generator's method and lets tests use a small fake.
type notificationGenerator interface {
	GenerateAutomaticNotifications(ctx context.Context) (int, error)
}

// Scheduler runs the notification generator on a fixed cadence.
type Scheduler struct {
	generator      notificationGenerator
	interval       time.Duration
	alertWebhook   string
	alertThreshold int // consecutive failed runs before alert
	lastAlertSentAt time.Time

	// Internal state
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	// Statistics
	lastRunAt            time.Time
	notificationsCreated int64
	runsCount            int64

	// Alert tracking
	consecutiveErrorCount int
}

func NewScheduler(generator notificationGenerator, interval time.Duration) *Scheduler {
	return &Scheduler{
		generator: generator,
		interval:  interval,
		running:   false,
	}
}

func (s *Scheduler) StartWithParams(
	ctx context.Context,
	intervalMinutes int,
	alertWebhook string,
	alertThreshold int,
) error {
	if intervalMinutes <= 0 {
		intervalMinutes = 30
	}

	s.mu.Lock()
	s.interval = time.Duration(intervalMinutes) * time.Minute
	s.alertWebhook = alertWebhook
	s.alertThreshold = alertThreshold
	s.consecutiveErrorCount = 0
	s.mu.Unlock()

	return s.Start(ctx)
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is already running")
		return nil
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	logger.Infof("Starting notification scheduler with interval: %v", s.interval)

	go s.run(ctx)

	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneChan)

	s.generateNotifications(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Infof("Scheduler running. Next execution in %v", s.interval)

	for {
		select {
		case <-ticker.C:
			s.generateNotifications(ctx)
			logger.Debugf("Next execution in %v", s.interval)

		case <-s.stopChan:
			logger.Warnf("Scheduler received stop signal")
			return

		case <-ctx.Done():
			logger.Warnf("Scheduler context cancelled")
			return
		}
	}
}

func (s *Scheduler) generateNotifications(ctx context.Context) {
	s.mu.Lock()
	s.lastRunAt = time.Now()
	s.runsCount++
	runNumber := s.runsCount
	alertWebhook := s.alertWebhook
	alertThreshold := s.alertThreshold
	s.mu.Unlock()

	logger.Infof("[Run #%d] Generating automatic notifications at %s", runNumber, s.lastRunAt.Format(time.RFC3339))

	created, err := s.generator.GenerateAutomaticNotifications(ctx)

	s.mu.Lock()
	if err != nil {
		s.consecutiveErrorCount++
		logger.Errorf("[Run #%d] Error generating notifications (consecutive count: %d/%d): %v",
			runNumber, s.consecutiveErrorCount, alertThreshold, err)

		if s.consecutiveErrorCount >= alertThreshold && alertThreshold > 0 && alertWebhook != "" {
			go s.sendAlert(alertWebhook, runNumber, s.consecutiveErrorCount)
		}
		s.mu.Unlock()
		return
	}

	if s.consecutiveErrorCount > 0 {
		logger.Debugf("[Run #%d] Resetting consecutive error count (was: %d)", runNumber, s.consecutiveErrorCount)
	}
	s.consecutiveErrorCount = 0
	s.notificationsCreated += int64(created)
	s.mu.Unlock()

	logger.Infof("[Run #%d] Created %d notifications", runNumber, created)
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is not running")
		return nil
	}

	s.running = false
	stopChan := s.stopChan
	doneChan := s.doneChan
	s.mu.Unlock()

	// Send stop signal
	close(stopChan)

	// Wait for goroutine to finish
	<-doneChan

	logger.Infof("Scheduler stopped")

	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) GetStatus() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{
		Running:               s.running,
		LastRunAt:             s.lastRunAt,
		NotificationsCreated:  s.notificationsCreated,
		RunsCount:             s.runsCount,
		Interval:              s.interval,
		ConsecutiveErrorCount: s.consecutiveErrorCount,
		LastAlertSentAt:       s.lastAlertSentAt,
	}

	if s.running && !s.lastRunAt.IsZero() {
		status.NextRunAt = s.lastRunAt.Add(s.interval)
	}

	return status
}

func (s *Scheduler) sendAlert(webhookURL string, runNumber int64, consecutiveErrors int) {
	alertPayload := map[string]any{
		"alert":             "notification_generation_failing",
		"runNumber":         runNumber,
		"consecutiveErrors": consecutiveErrors,
		"timestamp":         time.Now().Format(time.RFC3339),
		"message": fmt.Sprintf(
			"Notification generation failed for %d consecutive iterations",
			consecutiveErrors,
		),
	}

	jsonData, err := json.Marshal(alertPayload)
	if err != nil {
		logger.Errorf("Failed to marshal alert payload: %v", err)
		return
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Errorf("Failed to send alert to webhook: %v", err)
		return
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("Failed to close alert webhook response body: %v", err)
		}
	}()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		s.mu.Lock()
		s.lastAlertSentAt = time.Now()
		s.mu.Unlock()
		logger.Infof("Alert sent successfully to %s (consecutive errors: %d)", webhookURL, consecutiveErrors)
	} else {
		logger.Warnf("Alert webhook returned status %d", resp.StatusCode)
	}
}

type SchedulerStatus struct {
	Running               bool          `json:"running"`
	LastRunAt             time.Time     `json:"lastRunAt,omitempty"`
	NextRunAt             time.Time     `json:"nextRunAt,omitempty"`
	NotificationsCreated  int64         `json:"notificationsCreated"`
	RunsCount             int64         `json:"runsCount"`
	Interval              time.Duration `json:"interval"`
	ConsecutiveErrorCount int           `json:"consecutiveErrorCount"`
	LastAlertSentAt       time.Time     `json:"lastAlertSentAt,omitempty"`
}
