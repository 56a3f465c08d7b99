package services

import (
	"activityhub-backend/pkg/logger"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpirySweeper periodically expires pending pix payments whose window elapsed, so
// their reservations are released without waiting for a completion attempt.
type ExpirySweeper struct {
	interval time.Duration
	batch    int

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

func NewExpirySweeper(interval time.Duration, batch int) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirySweeper{interval: interval, batch: batch}
}

// Start runs the sweep loop in the background. Calling Start twice is a no-op.
func (s *ExpirySweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stopChan, s.done)
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}

func (s *ExpirySweeper) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	log := logger.Named("sweeper")
	log.Info("expiry sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-stop:
			log.Info("expiry sweeper stopped")
			return
		}
	}
}

// SweepOnce runs a single pass and returns the number of payments expired.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) int {
	n, err := SweepExpiredPayments(ctx, s.batch)
	if err != nil {
		logger.Named("sweeper").Error("sweep failed", zap.Int("expired", n), zap.Error(err))
		return n
	}
	if n > 0 {
		logger.Named("sweeper").Info("expired pix payments", zap.Int("count", n))
	}
	return n
}
