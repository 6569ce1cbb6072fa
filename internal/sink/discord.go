package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lhwatch/internal/announce"
	"lhwatch/pkg/logx"
)

// Embed colors keyed by announcement status, first substring match wins.
const (
	colorOpen     = 0x00FF00 // 접수중, 공고중
	colorUpcoming = 0x0099FF // 접수예정
	colorClosed   = 0xFF0000 // 마감
	colorNeutral  = 0x808080
)

// Discord delivers rich-embed notifications through a channel webhook.
type Discord struct {
	log        logx.Logger
	webhookURL string
	http       *http.Client
	limiter    *rate.Limiter
}

// NewDiscord builds the Discord sink. An empty webhook URL yields a disabled
// no-op sink.
func NewDiscord(webhookURL string, log logx.Logger) *Discord {
	return &Discord{
		log:        log,
		webhookURL: strings.TrimSpace(webhookURL),
		http:       &http.Client{Timeout: 10 * time.Second},
		limiter:    newSendLimiter(),
	}
}

func (d *Discord) Name() string  { return "discord" }
func (d *Discord) Enabled() bool { return d.webhookURL != "" }

// Send delivers one embed per announcement. Individual failures are logged
// and skipped.
func (d *Discord) Send(ctx context.Context, anns []announce.Announcement) {
	if !d.Enabled() {
		return
	}
	for _, ann := range anns {
		if err := d.limiter.Wait(ctx); err != nil {
			return
		}
		if err := d.post(ctx, buildEmbed(ann, time.Now())); err != nil {
			d.log.Warn("discord send failed", logx.String("title", ann.Title), logx.Err(err))
			continue
		}
		d.log.Info("discord notified", logx.String("id", ann.ID), logx.String("title", ann.Title))
	}
}

// SendEmbed delivers one precomposed embed (used for the daily summary).
func (d *Discord) SendEmbed(ctx context.Context, embed Embed) {
	if !d.Enabled() {
		return
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return
	}
	if err := d.post(ctx, embed); err != nil {
		d.log.Warn("discord embed send failed", logx.Err(err))
	}
}

func (d *Discord) post(ctx context.Context, embed Embed) error {
	body, err := json.Marshal(map[string][]Embed{"embeds": {embed}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// statusColor picks the embed color from the status text, first substring
// match wins.
func statusColor(status string) int {
	switch {
	case strings.Contains(status, "접수중"), strings.Contains(status, "공고중"):
		return colorOpen
	case strings.Contains(status, "접수예정"):
		return colorUpcoming
	case strings.Contains(status, "마감"):
		return colorClosed
	default:
		return colorNeutral
	}
}

func buildEmbed(ann announce.Announcement, now time.Time) Embed {
	return Embed{
		Title: "🏠 " + ann.Title,
		URL:   ann.URL,
		Color: statusColor(ann.Status),
		Fields: []EmbedField{
			{Name: "🏷 임대유형", Value: orDash(ann.RentalType), Inline: true},
			{Name: "🟢 상태", Value: orDash(ann.Status), Inline: true},
			{Name: "📅 공고일", Value: orDash(ann.RegDate), Inline: true},
			{Name: "📆 접수기간", Value: ann.RcptBegin + " ~ " + ann.RcptEnd, Inline: false},
		},
		Footer:    &EmbedFooter{Text: "LH 임대주택 공고 모니터링"},
		Timestamp: now.Format(time.RFC3339),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
