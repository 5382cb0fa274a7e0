package service

import (
	"context"
	"sync"
	"time"

	"syringe_rig/internal/models"
)

// MonitoringService keeps the status snapshot of the running session. The
// motion loop writes it; the HTTP layer reads it from other goroutines.
type MonitoringService struct {
	mu sync.RWMutex
	st models.MotionStatus
}

func NewMonitoringService() *MonitoringService {
	return &MonitoringService{}
}

// GetState returns a copy of the latest snapshot.
func (s *MonitoringService) GetState(ctx context.Context) (models.MotionStatus, error) {
	if err := ctx.Err(); err != nil {
		return models.MotionStatus{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st, nil
}

func (s *MonitoringService) begin(sessionID string) {
	s.update(func(st *models.MotionStatus) {
		*st = models.MotionStatus{SessionID: sessionID, Running: true}
	})
}

func (s *MonitoringService) record(e models.MotionEvent) {
	s.update(func(st *models.MotionStatus) {
		st.Phase = e.Phase.String()
		st.Stage = e.Stage.String()
		st.Target = e.Target
		st.ElapsedS = e.ElapsedSeconds
		st.Events++
	})
}

func (s *MonitoringService) setCycles(n int) {
	s.update(func(st *models.MotionStatus) { st.Cycles = n })
}

func (s *MonitoringService) finish(reason string, err error) {
	s.update(func(st *models.MotionStatus) {
		st.Running = false
		st.StopReason = reason
		if err != nil {
			st.LastError = err.Error()
		}
	})
}

// update is a no-op on a nil service so the loop can run without monitoring.
func (s *MonitoringService) update(fn func(*models.MotionStatus)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
	s.st.UpdatedAt = time.Now().UTC()
}
