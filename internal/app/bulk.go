package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/medalist/internal/adapters/mq/queue"
	"github.com/okian/medalist/internal/adapters/mq/worker"
	"github.com/okian/medalist/pkg/logger"
)

// EvaluateProfiles evaluates every catalog award for each profile through
// the worker pool and returns the outcomes in input order. Profiles that
// cannot be queued or evaluated carry the error in their outcome.
func (s *Service) EvaluateProfiles(ctx context.Context, profileIDs []string) ([]worker.Outcome, error) {
	s.mu.RLock()
	started, jobs := s.started, s.jobs
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	out := make([]worker.Outcome, len(profileIDs))
	jobIDs := make([]string, len(profileIDs))
	waits := make([]chan worker.Outcome, len(profileIDs))
	for i, id := range profileIDs {
		job := queue.Job{ID: uuid.NewString(), ProfileID: id}
		jobIDs[i] = job.ID
		ch := s.await(job.ID)
		if err := jobs.Enqueue(ctx, job); err != nil {
			s.release(job.ID)
			out[i] = worker.Outcome{JobID: job.ID, ProfileID: id, Err: fmt.Errorf("enqueue: %w", err)}
			continue
		}
		waits[i] = ch
	}

	for i, ch := range waits {
		if ch == nil {
			continue
		}
		select {
		case o := <-ch:
			o.ProfileID = profileIDs[i]
			out[i] = o
		case <-ctx.Done():
			for _, id := range jobIDs[i:] {
				s.release(id)
			}
			return nil, fmt.Errorf("bulk evaluation: %w", ctx.Err())
		}
	}
	return out, nil
}

// Deliver routes a worker outcome to the caller waiting for it.
func (s *Service) Deliver(ctx context.Context, o worker.Outcome) {
	s.pendingMu.Lock()
	ch, ok := s.pending[o.JobID]
	delete(s.pending, o.JobID)
	s.pendingMu.Unlock()
	if !ok {
		s.logger.Debug(ctx, "outcome without waiter", logger.String("jobID", o.JobID))
		return
	}
	ch <- o
}

func (s *Service) await(jobID string) chan worker.Outcome {
	ch := make(chan worker.Outcome, 1)
	s.pendingMu.Lock()
	s.pending[jobID] = ch
	s.pendingMu.Unlock()
	return ch
}

func (s *Service) release(jobID string) {
	s.pendingMu.Lock()
	delete(s.pending, jobID)
	s.pendingMu.Unlock()
}

// failPending answers every waiting bulk caller with err.
func (s *Service) failPending(ctx context.Context, err error) {
	s.pendingMu.Lock()
	pending := s.pending
	s.pending = make(map[string]chan worker.Outcome)
	s.pendingMu.Unlock()
	if len(pending) > 0 {
		s.logger.Warn(ctx, "failing unfinished bulk jobs", logger.Int("jobs", len(pending)))
	}
	for jobID, ch := range pending {
		ch <- worker.Outcome{JobID: jobID, Err: fmt.Errorf("evaluation not finished: %w", err)}
	}
}
