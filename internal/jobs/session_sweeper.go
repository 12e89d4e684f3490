package jobs

import (
	"context"
	"time"

	"github.com/quantacore/skilluplift/config"
	"github.com/quantacore/skilluplift/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// SessionSweeper expires in-progress sessions whose deadline (plus submission
// grace) has passed. It keeps the ledger truthful when a client disappears
// without ever submitting.
type SessionSweeper struct {
	sessionRepo repository.SessionRepository
	grace       time.Duration
}

func NewSessionSweeper(sessionRepo repository.SessionRepository, cfg *config.Config) *SessionSweeper {
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		grace:       time.Duration(cfg.Assessment.GraceSeconds) * time.Second,
	}
}

func (s *SessionSweeper) Run() {
	cutoff := time.Now().Add(-s.grace)
	expired, err := s.sessionRepo.ExpireOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Session sweep failed")
		return
	}
	if expired > 0 {
		log.Info().Int64("expired", expired).Msg("Swept overdue sessions")
	}
}

// StartSessionSweeper schedules the sweep every minute for the app's lifetime.
func StartSessionSweeper(lc fx.Lifecycle, sweeper *SessionSweeper) error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", sweeper.Run); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			log.Info().Msg("Session sweeper scheduled")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			<-c.Stop().Done()
			return nil
		},
	})
	return nil
}
