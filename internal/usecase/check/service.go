// Package check runs the batch status check over the whole roster and
// renders the results as chat messages.
package check

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain/status"
	"github.com/subwatch/subwatch/internal/metrics"
)

// Service handles batch subscription checks.
type Service struct {
	roster  RosterReader
	checker Checker
	logger  *zap.Logger
}

// New creates a Service.
func New(roster RosterReader, checker Checker, logger *zap.Logger) *Service {
	return &Service{roster: roster, checker: checker, logger: logger}
}

// Run checks every subscription in roster order and returns one status per
// subscription. Individual failures are embedded in the statuses; only a
// roster read failure is returned as an error.
func (s *Service) Run(ctx context.Context) ([]status.Status, error) {
	refs, err := s.roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer func(start time.Time) {
		metrics.CheckBatchDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	statuses := make([]status.Status, 0, len(refs))
	for _, ref := range refs {
		st := s.checker.Check(ctx, ref)
		outcome := metrics.OutcomeOk
		if st.IsErr() {
			outcome = metrics.OutcomeErr
			s.logger.Info("subscription check failed",
				zap.String("name", st.Name()), zap.String("reason", st.Reason()))
		}
		metrics.CheckTotal.WithLabelValues(outcome).Inc()
		statuses = append(statuses, st)
	}
	return statuses, nil
}
