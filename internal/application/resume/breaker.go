package resume

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hirepath/internal/application/models"
	"hirepath/pkg/platform/circuit"
	"hirepath/pkg/platform/sentinel"
)

// GuardedStore fails fast with sentinel.ErrUnavailable while the wrapped store
// keeps failing, so submissions are not held for a full timeout each.
type GuardedStore struct {
	next    Store
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuardedStore(next Store, breaker *circuit.Breaker, logger *slog.Logger) *GuardedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedStore{next: next, breaker: breaker, logger: logger}
}

func (s *GuardedStore) Save(ctx context.Context, file models.Attachment) (string, error) {
	if !s.breaker.Allow() {
		return "", fmt.Errorf("save resume: %s circuit open: %w", s.breaker.Name(), sentinel.ErrUnavailable)
	}
	ref, err := s.next.Save(ctx, file)
	s.record(ctx, err)
	return ref, err
}

// Delete always reaches the backend, even while the circuit is open, so
// orphaned resumes are still removed. The result still counts toward the
// circuit state.
func (s *GuardedStore) Delete(ctx context.Context, ref string) error {
	err := s.next.Delete(ctx, ref)
	s.record(ctx, err)
	return err
}

// record ignores caller cancellation; only backend failures count.
func (s *GuardedStore) record(ctx context.Context, err error) {
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "resume store circuit closed", "circuit", s.breaker.Name())
		}
		return
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return
	}
	if _, change := s.breaker.RecordFailure(); change.Opened {
		s.logger.WarnContext(ctx, "resume store circuit opened",
			"circuit", s.breaker.Name(),
			"error", err,
		)
	}
}
