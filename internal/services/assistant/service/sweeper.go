package service

import (
	"context"
	"time"

	"assistify/internal/modkit/repokit"
	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/logger"
	"assistify/internal/services/assistant/repo"
)

// Sweeper deletes expired pending rows from postgres; the other backends expire on their own
type Sweeper struct {
	db    repokit.Queryer
	every time.Duration
	now   func() time.Time
}

// NewSweeper constructs a Sweeper running every interval
func NewSweeper(db repokit.Queryer, every time.Duration) *Sweeper {
	if db == nil {
		panic("assistant.Sweeper requires a non nil Queryer")
	}
	if every <= 0 {
		every = time.Minute
	}
	return &Sweeper{db: db, every: every, now: time.Now}
}

// Run sweeps until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	log := logger.Named("pending-sweeper")
	t := time.NewTicker(s.every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				evt := log.Warn()
				if perr.IsRetryable(err) {
					evt = log.Debug()
				}
				evt.Err(err).Msg("pending sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("expired pending actions removed")
			}
		}
	}
}

// Sweep runs one purge pass
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return repo.PurgeExpired(ctx, s.db, s.now())
}
