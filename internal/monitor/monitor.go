// Package monitor drives the check cycle (fetch, filter, dedupe, notify) and
// the daily summary cadence. It is the sole mutator of the seen store and the
// daily aggregator.
package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"lhwatch/internal/announce"
	"lhwatch/internal/sink"
	"lhwatch/internal/store"
	"lhwatch/pkg/logx"
)

// regionToken restricts notifications to Busan listings. Kept a literal on
// purpose: the deployment watches exactly one locality.
const regionToken = "부산"

const (
	defaultInterval = 30 * time.Minute

	// recoveryDelay is the backoff after a failed cycle; transient fetch or
	// persistence trouble must never kill the loop.
	recoveryDelay = 60 * time.Second

	// summaryHour is the local hour of the daily digest; summaryCronSpec is
	// its cron form.
	summaryHour     = 21
	summaryCronSpec = "0 21 * * *"
)

// ErrNoSinks is the startup precondition failure: running without a single
// enabled notification channel is pointless, so main exits non-zero on it.
var ErrNoSinks = errors.New("no notification sink is configured")

// Fetcher is the acquisition surface the monitor drives. Both operations
// swallow their own errors into empty results; the preference order between
// them lives here.
type Fetcher interface {
	FetchAPI(ctx context.Context, key string) []announce.Announcement
	FetchWeb(ctx context.Context) []announce.Announcement
}

type Options struct {
	Log      logx.Logger
	Seen     *store.SeenStore
	Daily    *store.DailyAggregator
	Fetcher  Fetcher
	Telegram *sink.Telegram
	Discord  *sink.Discord

	// APIKey enables the open-data strategy as first fetch preference.
	APIKey   string
	Interval time.Duration
	Location *time.Location
}

type Monitor struct {
	log     logx.Logger
	seen    *store.SeenStore
	daily   *store.DailyAggregator
	fetcher Fetcher

	tg    *sink.Telegram
	dc    *sink.Discord
	sinks []sink.Sink

	apiKey string
	loc    *time.Location
	cron   *cron.Cron

	// summaryCh carries the cron trigger into the Run loop. The stores are
	// only ever touched from that goroutine, so the cron job must not
	// dispatch the summary itself.
	summaryCh chan struct{}

	mu              sync.Mutex
	interval        time.Duration
	lastSummaryDate string

	now func() time.Time
}

func New(opts Options) (*Monitor, error) {
	if !opts.Telegram.Enabled() && !opts.Discord.Enabled() {
		return nil, ErrNoSinks
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	m := &Monitor{
		log:       opts.Log,
		seen:      opts.Seen,
		daily:     opts.Daily,
		fetcher:   opts.Fetcher,
		tg:        opts.Telegram,
		dc:        opts.Discord,
		sinks:     []sink.Sink{opts.Telegram, opts.Discord},
		apiKey:    strings.TrimSpace(opts.APIKey),
		loc:       loc,
		summaryCh: make(chan struct{}, 1),
		interval:  interval,
		now:       time.Now,
	}

	m.cron = cron.New(cron.WithLocation(loc))
	if _, err := m.cron.AddFunc(summaryCronSpec, m.signalSummary); err != nil {
		return nil, err
	}
	return m, nil
}

// signalSummary nudges the Run loop from the cron goroutine.
func (m *Monitor) signalSummary() {
	select {
	case m.summaryCh <- struct{}{}:
	default:
	}
}

// SetInterval changes the steady-state cycle pause; picked up on the next
// sleep.
func (m *Monitor) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.interval = d
	m.mu.Unlock()
}

func (m *Monitor) currentInterval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// fetch runs the source preference order: open-data API first when a
// credential is configured, web fetch as fallback or sole source.
func (m *Monitor) fetch(ctx context.Context) []announce.Announcement {
	if m.apiKey != "" {
		if anns := m.fetcher.FetchAPI(ctx, m.apiKey); len(anns) > 0 {
			return anns
		}
		return m.fetcher.FetchWeb(ctx)
	}
	return m.fetcher.FetchWeb(ctx)
}

func filterRegion(anns []announce.Announcement) []announce.Announcement {
	var out []announce.Announcement
	for _, a := range anns {
		if strings.Contains(a.Title, regionToken) {
			out = append(out, a)
		}
	}
	return out
}

// CheckOnce performs one steady-state cycle and returns the newly seen
// announcements. Persistence failures are the only errors it surfaces.
func (m *Monitor) CheckOnce(ctx context.Context) ([]announce.Announcement, error) {
	anns := filterRegion(m.fetch(ctx))

	var newList []announce.Announcement
	for _, ann := range anns {
		if !m.seen.IsNew(ann.ID) {
			continue
		}
		m.seen.MarkSeen(ann.ID)
		if err := m.daily.Add(ann); err != nil {
			return nil, err
		}
		newList = append(newList, ann)
	}

	// The check time is recorded even when nothing new turned up.
	if err := m.seen.UpdateCheckTime(); err != nil {
		return nil, err
	}

	if len(newList) == 0 {
		m.log.Info("no new announcements", logx.Int("checked", len(anns)))
		return nil, nil
	}

	m.log.Info("new announcements", logx.Int("count", len(newList)))
	for _, s := range m.sinks {
		if s.Enabled() {
			s.Send(ctx, newList)
		}
	}
	return newList, nil
}

// primeFirstRun records every currently visible announcement without
// notifying, so a fresh deployment does not blast the full backlog.
func (m *Monitor) primeFirstRun(ctx context.Context) error {
	anns := filterRegion(m.fetch(ctx))
	for _, ann := range anns {
		m.seen.MarkSeen(ann.ID)
	}
	if err := m.seen.UpdateCheckTime(); err != nil {
		return err
	}
	m.log.Info("first run: recorded existing announcements without notifying", logx.Int("count", len(anns)))
	return nil
}

// summaryDue reports whether the catch-up path should dispatch: inside the
// summary hour with no digest sent today yet. Covers a process (re)started
// after the cron trigger already fired.
func (m *Monitor) summaryDue() bool {
	now := m.now().In(m.loc)
	if now.Hour() != summaryHour {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSummaryDate != now.Format("2006-01-02")
}

// sendDailySummary pushes the accumulated digest through both sinks, at most
// once per calendar day. Only the Run loop goroutine (and tests) may call it;
// it reads the daily aggregator unsynchronized.
func (m *Monitor) sendDailySummary(ctx context.Context) {
	today := m.now().In(m.loc).Format("2006-01-02")
	m.mu.Lock()
	if m.lastSummaryDate == today {
		m.mu.Unlock()
		return
	}
	m.lastSummaryDate = today
	m.mu.Unlock()

	if text, ok := m.daily.SummaryText(); ok {
		m.tg.SendText(ctx, text)
	}
	if embed, ok := m.daily.SummaryEmbed(); ok {
		m.dc.SendEmbed(ctx, embed)
	}
	m.log.Info("daily summary dispatched", logx.String("date", today), logx.Int("items", m.daily.Count()))
}
