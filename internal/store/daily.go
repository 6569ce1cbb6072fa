package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"lhwatch/internal/announce"
	"lhwatch/internal/sink"
	"lhwatch/pkg/logx"
)

const dayFormat = "2006-01-02"

type dailyState struct {
	Date          string                  `json:"date"`
	Announcements []announce.Announcement `json:"announcements"`
}

// DailyAggregator accumulates the announcements first seen on the current
// calendar day. The day rollover happens inside Add: when today differs from
// the stored stamp the accumulated list is cleared before the append. The
// summary consumers only read; they never reset the state.
type DailyAggregator struct {
	log   logx.Logger
	path  string
	loc   *time.Location
	state dailyState

	now func() time.Time
}

// OpenDaily loads the persisted accumulation with the same missing/corrupt
// fallback behavior as OpenSeen.
func OpenDaily(path string, loc *time.Location, log logx.Logger) *DailyAggregator {
	if loc == nil {
		loc = time.Local
	}
	d := &DailyAggregator{
		log:   log,
		path:  path,
		loc:   loc,
		state: dailyState{Announcements: []announce.Announcement{}},
		now:   time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("daily state unreadable, starting empty", logx.String("path", path), logx.Err(err))
		}
		return d
	}

	var loaded dailyState
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn("daily state corrupt, starting empty", logx.String("path", path), logx.Err(err))
		return d
	}
	if loaded.Announcements == nil {
		loaded.Announcements = []announce.Announcement{}
	}
	d.state = loaded
	return d
}

// Add appends an announcement to today's accumulation and persists
// synchronously. A date change clears the previous day first.
func (d *DailyAggregator) Add(ann announce.Announcement) error {
	today := d.today()
	if d.state.Date != today {
		d.state.Date = today
		d.state.Announcements = d.state.Announcements[:0]
	}
	d.state.Announcements = append(d.state.Announcements, ann)
	return writeJSONFile(d.path, d.state)
}

// Date returns the day stamp of the current accumulation.
func (d *DailyAggregator) Date() string { return d.state.Date }

// Count returns how many announcements are accumulated.
func (d *DailyAggregator) Count() int { return len(d.state.Announcements) }

// SummaryText renders the Telegram digest. The second return is false when
// nothing has accumulated.
func (d *DailyAggregator) SummaryText() (string, bool) {
	anns := d.state.Announcements
	if len(anns) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>LH 임대주택 일일 요약 (%s)</b>\n", d.state.Date)
	for _, a := range anns {
		fmt.Fprintf(&b, "\n• %s [%s]", a.Title, a.RentalType)
	}
	fmt.Fprintf(&b, "\n\n총 %d건", len(anns))
	return b.String(), true
}

// SummaryEmbed renders the Discord digest with the same absence rule as
// SummaryText.
func (d *DailyAggregator) SummaryEmbed() (sink.Embed, bool) {
	anns := d.state.Announcements
	if len(anns) == 0 {
		return sink.Embed{}, false
	}

	lines := make([]string, 0, len(anns))
	for _, a := range anns {
		lines = append(lines, fmt.Sprintf("• %s [%s]", a.Title, a.RentalType))
	}
	return sink.Embed{
		Title:       fmt.Sprintf("📊 LH 임대주택 일일 요약 (%s)", d.state.Date),
		Description: strings.Join(lines, "\n"),
		Color:       0x0099FF,
		Footer:      &sink.EmbedFooter{Text: fmt.Sprintf("총 %d건", len(anns))},
		Timestamp:   d.now().Format(time.RFC3339),
	}, true
}

func (d *DailyAggregator) today() string {
	return d.now().In(d.loc).Format(dayFormat)
}
