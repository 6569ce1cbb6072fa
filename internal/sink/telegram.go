package sink

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"lhwatch/internal/announce"
	"lhwatch/pkg/logx"
)

// Telegram delivers per-announcement HTML messages via the Bot API.
type Telegram struct {
	log     logx.Logger
	bot     *tele.Bot
	chatID  int64
	enabled bool
	limiter *rate.Limiter
}

// NewTelegram builds the Telegram sink. The sink is enabled only when both
// the bot token and the chat ID are set; otherwise a disabled no-op sink is
// returned with no error.
//
// The bot is created Offline so startup never blocks on a getMe probe; a bad
// token surfaces on the first send and is logged like any delivery failure.
func NewTelegram(token, chatID string, log logx.Logger) (*Telegram, error) {
	t := &Telegram{log: log, limiter: newSendLimiter()}
	if strings.TrimSpace(token) == "" || strings.TrimSpace(chatID) == "" {
		return t, nil
	}

	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram chat id %q: %w", chatID, err)
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}

	t.bot = bot
	t.chatID = id
	t.enabled = true
	return t, nil
}

func (t *Telegram) Name() string  { return "telegram" }
func (t *Telegram) Enabled() bool { return t.enabled }

// Send delivers one message per announcement, pacing deliveries with the
// shared limiter. Individual failures are logged and skipped.
func (t *Telegram) Send(ctx context.Context, anns []announce.Announcement) {
	if !t.enabled {
		return
	}
	for _, ann := range anns {
		if err := t.limiter.Wait(ctx); err != nil {
			return
		}
		if err := t.send(formatAnnouncement(ann)); err != nil {
			t.log.Warn("telegram send failed", logx.String("title", ann.Title), logx.Err(err))
			continue
		}
		t.log.Info("telegram notified", logx.String("id", ann.ID), logx.String("title", ann.Title))
	}
}

// SendText delivers one precomposed HTML message (used for the daily summary).
func (t *Telegram) SendText(ctx context.Context, text string) {
	if !t.enabled {
		return
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return
	}
	if err := t.send(text); err != nil {
		t.log.Warn("telegram text send failed", logx.Err(err))
	}
}

func (t *Telegram) send(text string) error {
	_, err := t.bot.Send(&tele.Chat{ID: t.chatID}, text, &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	})
	return err
}

func formatAnnouncement(ann announce.Announcement) string {
	var b strings.Builder
	b.WriteString("🏠 <b>LH 임대주택 새 공고</b>\n\n")
	fmt.Fprintf(&b, "📋 <b>%s</b>\n", ann.Title)
	fmt.Fprintf(&b, "🏷 유형: %s\n", ann.RentalType)
	fmt.Fprintf(&b, "🟢 상태: %s\n", ann.Status)
	fmt.Fprintf(&b, "📅 공고일: %s\n", ann.RegDate)
	fmt.Fprintf(&b, "📆 접수: %s ~ %s\n\n", ann.RcptBegin, ann.RcptEnd)
	fmt.Fprintf(&b, "🔗 <a href=%q>공고 상세보기</a>", ann.URL)
	return b.String()
}
