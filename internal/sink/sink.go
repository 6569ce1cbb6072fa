// Package sink implements the outbound notification channels.
//
// Sinks are constructed once at startup and are immutable afterwards. A sink
// with missing configuration is disabled: every operation is a silent no-op.
// Delivery is strictly best-effort: a failed send is logged and never
// propagates or aborts the rest of a batch.
package sink

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"lhwatch/internal/announce"
)

// Sink delivers a batch of announcements, one message per announcement.
type Sink interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, anns []announce.Announcement)
}

// sendInterval spaces successive deliveries within a batch so we stay well
// under both Telegram's and Discord's per-channel rate limits.
const sendInterval = 500 * time.Millisecond

func newSendLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(sendInterval), 1)
}

// Embed is a Discord rich-embed payload. It is also produced by the daily
// aggregator for the summary report, hence it lives here rather than in the
// Discord sink file.
type Embed struct {
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}
