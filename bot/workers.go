package bot

import (
	"context"
	"strconv"
	"time"

	"apostas/config"
	"apostas/domain/services"

	log "github.com/sirupsen/logrus"
)

// StartSweepWorker starts the background worker that reaps bets stuck in
// intermediate states. Returns a cleanup function that stops it.
func (b *Bot) StartSweepWorker(ctx context.Context) func() {
	interval := config.Get().SweepInterval
	adminLogChannelID := parseAdminLogChannel(config.Get().AdminLogChannelID)
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	runSweeps := func() {
		sweepCtx := context.Background()
		uow := b.uowFactory.Create()
		if err := uow.Begin(sweepCtx); err != nil {
			log.Errorf("Error beginning sweep transaction: %v", err)
			return
		}
		defer uow.Rollback()

		faults := services.NewFaultService(uow.PlayerRepository(), uow.BetRepository(), b.gateway)
		sweeper := services.NewSweepService(uow.PlayerRepository(), uow.BetRepository(), b.gateway, faults, adminLogChannelID)

		now := time.Now()
		unpaid, err := sweeper.SweepUnpaid(sweepCtx, now)
		if err != nil {
			log.Errorf("Error sweeping unpaid bets: %v", err)
			return
		}
		unstarted, err := sweeper.SweepUnstarted(sweepCtx, now)
		if err != nil {
			log.Errorf("Error sweeping unstarted bets: %v", err)
			return
		}
		unfinished, err := sweeper.SweepUnfinished(sweepCtx, now)
		if err != nil {
			log.Errorf("Error sweeping unfinished bets: %v", err)
			return
		}

		if err := uow.Commit(); err != nil {
			log.Errorf("Error committing sweep transaction: %v", err)
			return
		}

		if total := unpaid + unstarted + unfinished; total > 0 {
			log.WithFields(log.Fields{
				"unpaid":     unpaid,
				"unstarted":  unstarted,
				"unfinished": unfinished,
			}).Info("Timeout sweep completed")
		}
	}

	go func() {
		log.Infof("Sweep worker started (interval: %s)", interval)

		runSweeps()

		for {
			select {
			case <-ctx.Done():
				log.Info("Sweep worker shutting down (context cancelled)")
				ticker.Stop()
				return
			case <-stopChan:
				log.Info("Sweep worker shutting down (stop requested)")
				ticker.Stop()
				return
			case <-ticker.C:
				runSweeps()
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func parseAdminLogChannel(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Warnf("Invalid ADMIN_LOG_CHANNEL_ID %q, admin log notices disabled", raw)
		return 0
	}
	return id
}
