// Package scheduler fires the daily roster check at a configurable hour.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// HourSource provides the hour of day to fire at. Re-read before every wait
// so a runtime change takes effect without restart.
type HourSource interface {
	CheckHour(ctx context.Context, fallback int) (int, error)
}

// Job is the work fired once per day.
type Job func(ctx context.Context)

// Daily runs a job every day at a configured civil hour.
type Daily struct {
	hours        HourSource
	job          Job
	fallbackHour int
	zone         *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

// New creates a Daily scheduler. offset is the fixed civil-time offset the
// hour is interpreted in.
func New(hours HourSource, job Job, fallbackHour int, offset time.Duration, logger *zap.Logger) *Daily {
	return &Daily{
		hours:        hours,
		job:          job,
		fallbackHour: fallbackHour,
		zone:         time.FixedZone("", int(offset/time.Second)),
		logger:       logger,
		now:          time.Now,
	}
}

// Run blocks until ctx is cancelled, firing the job at each scheduled hour.
func (d *Daily) Run(ctx context.Context) error {
	for {
		hour, err := d.hours.CheckHour(ctx, d.fallbackHour)
		if err != nil {
			d.logger.Warn("check hour lookup failed, using fallback",
				zap.Int("fallback", d.fallbackHour), zap.Error(err))
			hour = d.fallbackHour
		}

		now := d.now().In(d.zone)
		next := nextRun(now, hour)
		d.logger.Info("daily check scheduled",
			zap.Int("hour", hour), zap.Time("next", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			d.logger.Info("daily check firing")
			d.job(ctx)
		}
	}
}

// nextRun returns the next occurrence of hour:00 strictly after now.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
