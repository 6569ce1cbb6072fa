package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lhwatch/internal/announce"
	"lhwatch/pkg/logx"
)

var sampleAnn = announce.Announcement{
	ID:         "12345",
	Title:      "부산강서 국민임대",
	RentalType: "국민임대",
	Status:     "접수중",
	RegDate:    "2026-02-19",
	RcptBegin:  "2026-03-01",
	RcptEnd:    "2026-03-15",
	URL:        "https://apply.lh.or.kr/detail/12345",
}

func openDailyAt(t *testing.T, day time.Time) *DailyAggregator {
	t.Helper()
	d := OpenDaily(filepath.Join(t.TempDir(), "daily_summary.json"), time.UTC, logx.Nop())
	d.now = func() time.Time { return day }
	return d
}

func TestDailyAddStampsDay(t *testing.T) {
	d := openDailyAt(t, time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC))
	if err := d.Add(sampleAnn); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if d.Date() != "2026-02-19" {
		t.Fatalf("unexpected day stamp %q", d.Date())
	}
	if d.Count() != 1 {
		t.Fatalf("expected 1 accumulated item, got %d", d.Count())
	}
}

func TestDailyRolloverClearsPreviousDay(t *testing.T) {
	d := openDailyAt(t, time.Date(2026, 2, 19, 23, 0, 0, 0, time.UTC))
	if err := d.Add(sampleAnn); err != nil {
		t.Fatalf("Add: %v", err)
	}

	next := sampleAnn
	next.ID = "67890"
	d.now = func() time.Time { return time.Date(2026, 2, 20, 1, 0, 0, 0, time.UTC) }
	if err := d.Add(next); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if d.Date() != "2026-02-20" {
		t.Fatalf("day stamp not advanced: %q", d.Date())
	}
	if d.Count() != 1 {
		t.Fatalf("previous day should be cleared before append, got %d items", d.Count())
	}
}

func TestDailyPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily_summary.json")
	d := OpenDaily(path, time.UTC, logx.Nop())
	d.now = func() time.Time { return time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC) }
	if err := d.Add(sampleAnn); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reloaded := OpenDaily(path, time.UTC, logx.Nop())
	if reloaded.Date() != "2026-02-19" || reloaded.Count() != 1 {
		t.Fatalf("reload lost state: date=%q count=%d", reloaded.Date(), reloaded.Count())
	}
}

func TestSummaryAbsentWhenEmpty(t *testing.T) {
	d := openDailyAt(t, time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC))
	if _, ok := d.SummaryText(); ok {
		t.Fatalf("empty aggregation must yield no text summary")
	}
	if _, ok := d.SummaryEmbed(); ok {
		t.Fatalf("empty aggregation must yield no embed summary")
	}
}

func TestSummaryText(t *testing.T) {
	d := openDailyAt(t, time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC))
	if err := d.Add(sampleAnn); err != nil {
		t.Fatalf("Add: %v", err)
	}

	text, ok := d.SummaryText()
	if !ok {
		t.Fatalf("expected a summary")
	}
	for _, want := range []string{"2026-02-19", sampleAnn.Title, sampleAnn.RentalType, "총 1건"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestSummaryEmbed(t *testing.T) {
	d := openDailyAt(t, time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC))
	if err := d.Add(sampleAnn); err != nil {
		t.Fatalf("Add: %v", err)
	}

	embed, ok := d.SummaryEmbed()
	if !ok {
		t.Fatalf("expected an embed")
	}
	if !strings.Contains(embed.Title, "2026-02-19") {
		t.Errorf("embed title missing date: %q", embed.Title)
	}
	if !strings.Contains(embed.Description, sampleAnn.Title) {
		t.Errorf("embed description missing item: %q", embed.Description)
	}
	if embed.Footer == nil || embed.Footer.Text != "총 1건" {
		t.Errorf("unexpected footer: %+v", embed.Footer)
	}
	if embed.Timestamp == "" {
		t.Errorf("embed should carry a generation timestamp")
	}
}
