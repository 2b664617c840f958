// Package session keeps the latest landlord report per client session.
//
// Each submitted query is stamped with a sequence number. A query that completes after a newer
// one was submitted is dropped, so a session only ever shows the result of its latest query.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/logger"
	"github.com/feral-file/habitat-tracker/internal/metrics"
	"github.com/feral-file/habitat-tracker/internal/query"
	"github.com/feral-file/habitat-tracker/internal/report"
)

// State is a snapshot of a session
type State struct {
	SessionID string
	Sequence  uint64
	Landlord  string
	Searching bool
	Report    *report.Report
	Err       error
	UpdatedAt time.Time
}

// Session runs landlord queries and keeps the result of the latest one
type Session struct {
	id           string
	orchestrator query.Orchestrator
	clock        adapter.Clock
	timeout      time.Duration

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	changed chan struct{}
}

func newSession(id string, orchestrator query.Orchestrator, clock adapter.Clock, timeout time.Duration) *Session {
	return &Session{
		id:           id,
		orchestrator: orchestrator,
		clock:        clock,
		timeout:      timeout,
		state: State{
			SessionID: id,
			UpdatedAt: clock.Now().UTC(),
		},
		changed: make(chan struct{}),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// State returns the current snapshot
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit starts a landlord query in the background and returns its sequence number.
// The previous report is cleared and any query still running is cancelled.
// The query is detached from ctx cancellation but keeps its values.
func (s *Session) Submit(ctx context.Context, landlord string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	seq := s.state.Sequence + 1
	s.state = State{
		SessionID: s.id,
		Sequence:  seq,
		Landlord:  landlord,
		Searching: true,
		UpdatedAt: s.clock.Now().UTC(),
	}
	s.notifyLocked()

	qctx := context.WithoutCancel(ctx)
	var cancel context.CancelFunc
	if s.timeout > 0 {
		qctx, cancel = context.WithTimeout(qctx, s.timeout)
	} else {
		qctx, cancel = context.WithCancel(qctx)
	}
	s.cancel = cancel

	go func() {
		defer cancel()
		r, err := s.orchestrator.LandlordReport(qctx, landlord)
		s.complete(qctx, seq, r, err)
	}()

	return seq
}

// complete stores a query result if seq is still the latest query
func (s *Session) complete(ctx context.Context, seq uint64, r *report.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.state.Sequence {
		metrics.StaleResultsDropped.Inc()
		logger.DebugCtx(ctx, "Dropped stale query result",
			zap.String("session_id", s.id),
			zap.Uint64("sequence", seq),
			zap.Uint64("current_sequence", s.state.Sequence),
		)
		return
	}

	s.state.Searching = false
	s.state.UpdatedAt = s.clock.Now().UTC()
	if err != nil {
		s.state.Err = err
		s.state.Report = nil
	} else {
		s.state.Report = r
	}
	s.cancel = nil
	s.notifyLocked()
}

// Wait blocks until the query with sequence seq has completed or been replaced.
// It returns the state at that point.
func (s *Session) Wait(ctx context.Context, seq uint64) (State, error) {
	for {
		s.mu.Lock()
		state := s.state
		changed := s.changed
		s.mu.Unlock()

		if state.Sequence > seq || (state.Sequence == seq && !state.Searching) {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-changed:
		}
	}
}

// close cancels the running query, if any
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
