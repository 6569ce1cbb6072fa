package monitor

import (
	"context"
	"time"

	"lhwatch/pkg/logx"
)

// cycleOutcome classifies one loop iteration so the pause after it can be
// chosen explicitly rather than threaded through error values.
type cycleOutcome int

const (
	cycleOK cycleOutcome = iota
	cycleEmpty
	cycleError
)

// Run executes the monitoring loop until ctx is cancelled. The first cycle of
// a fresh state file only primes the seen store; every later cycle notifies.
// A failed cycle retries after recoveryDelay instead of the full interval.
//
// The cron entry only signals summaryCh; the summary itself is dispatched
// here, so the seen store and the daily aggregator are touched by exactly one
// goroutine.
func (m *Monitor) Run(ctx context.Context) error {
	m.cron.Start()
	defer m.cron.Stop()

	delay := m.currentInterval()
	if _, hasHistory := m.seen.LastCheck(); hasHistory {
		// Restart: check immediately instead of sleeping a full interval.
		delay = 0
	} else if err := m.primeFirstRun(ctx); err != nil {
		m.log.Error("first run failed", logx.Err(err))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.summaryCh:
			m.sendDailySummary(ctx)
		case <-timer.C:
			out := m.runCycle(ctx)
			if m.summaryDue() {
				m.sendDailySummary(ctx)
			}
			timer.Reset(m.nextDelay(out))
		}
	}
}

// nextDelay picks the pause before the next cycle: the configured interval,
// or the recovery cadence after a failed one.
func (m *Monitor) nextDelay(out cycleOutcome) time.Duration {
	if out == cycleError {
		return recoveryDelay
	}
	return m.currentInterval()
}

func (m *Monitor) runCycle(ctx context.Context) cycleOutcome {
	newList, err := m.CheckOnce(ctx)
	switch {
	case err != nil:
		m.log.Error("check cycle failed", logx.Err(err), logx.Duration("retry_in", recoveryDelay))
		return cycleError
	case len(newList) == 0:
		return cycleEmpty
	default:
		return cycleOK
	}
}
