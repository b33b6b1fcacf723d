package services

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ServiceStatus represents the current state of a background service
type ServiceStatus struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	Running     bool      `json:"running"`
	Interval    string    `json:"interval"`
	LastRun     time.Time `json:"last_run"`
	NextRun     time.Time `json:"next_run"`
	LastError   string    `json:"last_error,omitempty"`
	RunCount    int64     `json:"run_count"`
	// Progress tracking
	Progress        int    `json:"progress"` // 0-100
	ProgressMessage string `json:"progress_message"`
	ItemsProcessed  int    `json:"items_processed"`
	ItemsTotal      int    `json:"items_total"`
}

// ServiceScheduler tracks background services for the admin dashboard
type ServiceScheduler struct {
	services map[string]*ServiceStatus
	mu       sync.RWMutex
	now      func() time.Time
}

func NewServiceScheduler() *ServiceScheduler {
	return &ServiceScheduler{
		services: make(map[string]*ServiceStatus),
		now:      time.Now,
	}
}

// Register adds a new service to track
func (s *ServiceScheduler) Register(name, description string, interval time.Duration, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.services[name] = &ServiceStatus{
		Name:        name,
		Description: description,
		Enabled:     enabled,
		Interval:    formatDuration(interval),
		NextRun:     s.now().Add(interval),
	}
}

func (s *ServiceScheduler) MarkRunning(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc, exists := s.services[name]; exists {
		svc.Running = true
	}
}

// MarkComplete records the end of a run and resets progress
func (s *ServiceScheduler) MarkComplete(name string, err error, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, exists := s.services[name]
	if !exists {
		return
	}
	now := s.now()
	svc.Running = false
	svc.LastRun = now
	svc.NextRun = now.Add(interval)
	svc.RunCount++
	svc.Progress = 0
	svc.ProgressMessage = ""
	svc.ItemsProcessed = 0
	svc.ItemsTotal = 0
	svc.LastError = ""
	if err != nil {
		svc.LastError = err.Error()
	}
}

func (s *ServiceScheduler) UpdateProgress(name string, processed, total int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc, exists := s.services[name]; exists {
		svc.ItemsProcessed = processed
		svc.ItemsTotal = total
		svc.ProgressMessage = message
		if total > 0 {
			svc.Progress = (processed * 100) / total
		}
	}
}

// GetStatus returns a snapshot of one service, or nil if unknown
func (s *ServiceScheduler) GetStatus(name string) *ServiceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if svc, exists := s.services[name]; exists {
		cp := *svc
		return &cp
	}
	return nil
}

// GetAllStatus returns snapshots of every service ordered by name
func (s *ServiceScheduler) GetAllStatus() []*ServiceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]*ServiceStatus, 0, len(s.services))
	for _, svc := range s.services {
		cp := *svc
		statuses = append(statuses, &cp)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// SetEnabled toggles a service; it reports false for unknown names
func (s *ServiceScheduler) SetEnabled(name string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, exists := s.services[name]
	if exists {
		svc.Enabled = enabled
	}
	return exists
}

func (s *ServiceScheduler) IsEnabled(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, exists := s.services[name]
	return exists && svc.Enabled
}

// formatDuration renders an interval like "5 minutes" or "1 hour"
func formatDuration(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}
