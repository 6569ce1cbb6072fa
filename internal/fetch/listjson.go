package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"lhwatch/internal/announce"
)

// The list endpoint answers with one of two envelope keys depending on which
// backend serves the request, and each item may be keyed in either a readable
// camelCase convention or an UPPER_SNAKE one. Both variances are handled as
// ordered candidate lists: first present, non-empty value wins.
var (
	envelopeKeys = []string{"dsList", "list"}

	listItemKeys = struct {
		id, title, typeCode, status, reg, begin, end []string
	}{
		id:       []string{"panId", "PAN_ID"},
		title:    []string{"panNm", "PAN_NM"},
		typeCode: []string{"aisTpCd", "AIS_TP_CD"},
		status:   []string{"panSttNm", "PAN_STT_NM"},
		reg:      []string{"dttmRgst", "DTTM_RGST"},
		begin:    []string{"clsgBgnDt", "CLSG_BGN_DT"},
		end:      []string{"clsgEndDt", "CLSG_END_DT"},
	}
)

var errNoListItems = errors.New("list response carries no dsList/list items")

// fetchListJSON posts paging parameters to the internal list endpoint
// (strategy 2). An empty or unrecognized envelope is an error so the caller
// can fall back to the HTML scrape.
func (c *Client) fetchListJSON(ctx context.Context) ([]announce.Announcement, error) {
	form := url.Values{
		"pg":         {"1"},
		"pgSz":       {strconv.Itoa(pageSize)},
		"uppAisTpCd": {"13"},
	}

	resp, err := c.postForm(ctx, c.listJSONURL, form)
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("list endpoint returned status %d", resp.StatusCode)
	}

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	var items []map[string]flexString
	for _, key := range envelopeKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %s items: %w", key, err)
		}
		if len(items) > 0 {
			break
		}
	}
	if len(items) == 0 {
		return nil, errNoListItems
	}

	anns := make([]announce.Announcement, 0, len(items))
	for _, it := range items {
		panID := pick(it, listItemKeys.id)
		anns = append(anns, announce.Announcement{
			ID:         panID,
			Title:      pick(it, listItemKeys.title),
			RentalType: announce.RentalTypeLabel(pick(it, listItemKeys.typeCode)),
			Status:     pick(it, listItemKeys.status),
			RegDate:    announce.NormalizeDate(pick(it, listItemKeys.reg)),
			RcptBegin:  announce.NormalizeDate(pick(it, listItemKeys.begin)),
			RcptEnd:    announce.NormalizeDate(pick(it, listItemKeys.end)),
			URL:        fmt.Sprintf(detailURLFormat, panID),
		})
	}
	return anns, nil
}

func pick(item map[string]flexString, keys []string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok && v != "" {
			return string(v)
		}
	}
	return ""
}
