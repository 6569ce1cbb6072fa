// Package fetch acquires candidate announcements from the three ranked LH
// sources: the government open-data API (credential required), the operator's
// internal list JSON endpoint, and finally an HTML scrape of the public list
// page. Strategy failures degrade to the next strategy or to an empty result;
// nothing here ever propagates an error to the orchestrator.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lhwatch/internal/announce"
	"lhwatch/pkg/logx"
)

const (
	defaultOpenAPIURL  = "http://apis.data.go.kr/B552555/lhNoticeInfo1/getNoticeInfo1"
	defaultListJSONURL = "https://apply.lh.or.kr/lhapply/apply/wt/wrtanc/selectWrtancListJson.do"
	defaultListHTMLURL = "https://apply.lh.or.kr/lhapply/apply/wt/wrtanc/selectWrtancList.do?mi=1026"
	detailURLFormat    = "https://apply.lh.or.kr/lhapply/apply/wt/wrtanc/selectWrtancView.do?panId=%s"

	pageSize = 30

	// The LH site serves a degraded page to obvious bots.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client fetches announcements from the ranked sources.
type Client struct {
	log  logx.Logger
	http *http.Client

	openAPIURL  string
	listJSONURL string
	listHTMLURL string
}

func New(log logx.Logger) *Client {
	return &Client{
		log:         log,
		http:        &http.Client{Timeout: 30 * time.Second},
		openAPIURL:  defaultOpenAPIURL,
		listJSONURL: defaultListJSONURL,
		listHTMLURL: defaultListHTMLURL,
	}
}

// FetchAPI queries the open-data endpoint (strategy 1). Every failure
// (transport, malformed payload, unexpected shape) is logged and swallowed
// into an empty result.
func (c *Client) FetchAPI(ctx context.Context, key string) []announce.Announcement {
	anns, err := c.fetchOpenAPI(ctx, key)
	if err != nil {
		c.log.Warn("open-data API fetch failed", logx.Err(err))
		return nil
	}
	c.log.Info("open-data API fetched", logx.Int("count", len(anns)))
	return anns
}

// FetchWeb queries the LH site: list JSON first (strategy 2), HTML scrape as
// fallback (strategy 3). Never returns an error; both strategies failing
// yields an empty result.
func (c *Client) FetchWeb(ctx context.Context) []announce.Announcement {
	anns, err := c.fetchListJSON(ctx)
	if err == nil {
		c.log.Info("list JSON fetched", logx.Int("count", len(anns)))
		return anns
	}
	c.log.Warn("list JSON failed, falling back to HTML scrape", logx.Err(err))

	anns, err = c.fetchHTML(ctx)
	if err != nil {
		c.log.Error("HTML scrape failed", logx.Err(err))
		return nil
	}
	c.log.Info("HTML scraped", logx.Int("count", len(anns)))
	return anns
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.http.Do(req)
}

func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.http.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")
	req.Header.Set("Referer", "https://apply.lh.or.kr")
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
