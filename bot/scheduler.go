package bot

import (
	"log"
	"sync"
	"time"

	"strike-bot/scanner"
)

// Scheduler owns the background sweeps: strike decay and the undo of
// temporary punishments. The ledger has no other background owner; the sweep
// mutates it only through the strikes package entry points.
type Scheduler struct {
	bot         *Bot
	done        chan struct{}
	wg          sync.WaitGroup
	sweepTicker *time.Ticker
}

func NewScheduler(b *Bot) *Scheduler {
	return &Scheduler{
		bot:  b,
		done: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	interval := time.Duration(s.bot.GetConfig().Strikes.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	s.sweepTicker = time.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.sweepTicker.C:
				scanner.SweepExpiredStrikes(s.bot.DB)
				scanner.SweepPendingReversals(s.bot.Session, s.bot.DB)
			case <-s.done:
				return
			}
		}
	}()
	log.Printf("Scheduler started, sweeping every %s", interval)
}

func (s *Scheduler) Stop() {
	close(s.done)
	if s.sweepTicker != nil {
		s.sweepTicker.Stop()
	}
	s.wg.Wait()
}
