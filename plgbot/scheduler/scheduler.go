package scheduler

import (
	"context"
	"log/slog"
	"time"
)

const jobTimeout = time.Minute

// DailyJob runs a function once per day at a fixed local hour. Failures
// are logged and swallowed; the job is best-effort by contract and never
// brings the process down.
type DailyJob struct {
	name string
	hour int
	loc  *time.Location
	run  func(context.Context) error
}

func NewDaily(name string, hour int, loc *time.Location, run func(context.Context) error) *DailyJob {
	return &DailyJob{name: name, hour: hour, loc: loc, run: run}
}

func (j *DailyJob) Start(ctx context.Context) {
	go func() {
		for {
			next := j.nextRun(time.Now())
			timer := time.NewTimer(time.Until(next))

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			if err := j.run(runCtx); err != nil {
				slog.Error("Scheduled job failed",
					slog.String("type", "sched"),
					slog.String("job", j.name),
					slog.String("error", err.Error()))
			} else {
				slog.Info("Scheduled job completed",
					slog.String("type", "sched"),
					slog.String("job", j.name))
			}
			cancel()
		}
	}()
}

// nextRun returns the next instant the job should fire: today at the
// configured hour if that is still ahead, otherwise tomorrow.
func (j *DailyJob) nextRun(now time.Time) time.Time {
	local := now.In(j.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), j.hour, 0, 0, 0, j.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
