package indexer

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// Start schedules Poll every PollInterval, starting immediately. A poll that
// is still running when the next one is due delays it instead of overlapping.
// The caller owns the returned scheduler and must shut it down.
func (i *Indexer) Start(ctx context.Context) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, xerrors.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(i.cfg.PollInterval),
		gocron.NewTask(func() {
			if err := i.Poll(ctx); err != nil {
				i.logger.Error("poll failed", zap.Error(err))
			}
		}),
		gocron.WithName("poll-logs"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, xerrors.Errorf("failed to schedule poll job: %w", err)
	}

	scheduler.Start()
	i.logger.Info("indexer started",
		zap.Duration("interval", i.cfg.PollInterval),
		zap.Uint64("start_block", i.cfg.StartBlock),
		zap.Uint64("confirmations", i.cfg.Confirmations),
	)
	return scheduler, nil
}
