package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lhwatch/internal/announce"
)

// rowSelectors are tried in order; the first selector matching any rows wins.
// The LH list page has shipped under all three markup variants.
var rowSelectors = []string{
	"table tbody tr",
	".board-list tbody tr",
	".tbl_list tbody tr",
}

// fetchHTML scrapes the public list page (strategy 3, last resort).
func (c *Client) fetchHTML(ctx context.Context) ([]announce.Announcement, error) {
	resp, err := c.get(ctx, c.listHTMLURL)
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("list page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse list page: %w", err)
	}

	var rows *goquery.Selection
	for _, sel := range rowSelectors {
		rows = doc.Find(sel)
		if rows.Length() > 0 {
			break
		}
	}
	if rows == nil || rows.Length() == 0 {
		return nil, nil
	}

	var anns []announce.Announcement
	rows.Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() == 0 {
			return
		}

		// Title and detail link come from the first anchor; rows without one
		// fall back to the first column's text.
		link := row.Find("a").First()
		var title, href string
		if link.Length() > 0 {
			title = strings.TrimSpace(link.Text())
			href, _ = link.Attr("href")
		} else {
			title = strings.TrimSpace(cols.Eq(0).Text())
		}
		id := extractID(href, title)

		// Columns map positionally; short rows yield empty strings rather
		// than an index error.
		colText := func(idx int) string {
			if idx >= cols.Length() {
				return ""
			}
			return strings.TrimSpace(cols.Eq(idx).Text())
		}

		anns = append(anns, announce.Announcement{
			ID:         id,
			Title:      title,
			RentalType: colText(1),
			RegDate:    announce.NormalizeDate(colText(2)),
			RcptBegin:  announce.NormalizeDate(colText(3)),
			RcptEnd:    announce.NormalizeDate(colText(4)),
			Status:     colText(5),
			URL:        fmt.Sprintf(detailURLFormat, id),
		})
	})
	return anns, nil
}
