package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"lhwatch/internal/announce"
)

// flexString decodes a JSON value that may arrive as either a string or a
// number; the open-data API is not consistent about which it sends for the
// serial and date fields.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

type openAPIItem struct {
	Sn         flexString `json:"sn"`
	Sj         flexString `json:"sj"`
	TypeCdNm   flexString `json:"typeCdNm"`
	CrtDt      flexString `json:"crtDt"`
	RceptBgnDt flexString `json:"rceptBgnDt"`
	RceptEndDt flexString `json:"rceptEndDt"`
	DtlURL     flexString `json:"dtlUrl"`
}

// fetchOpenAPI performs the single-page open-data request. The response's
// items container may be absent, a bare string, a single object, or a list;
// all of those normalize to a (possibly empty) slice.
func (c *Client) fetchOpenAPI(ctx context.Context, key string) ([]announce.Announcement, error) {
	q := url.Values{
		"ServiceKey": {key},
		"pageNo":     {"1"},
		"numOfRows":  {strconv.Itoa(pageSize)},
		"type":       {"json"},
	}

	resp, err := c.get(ctx, c.openAPIURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("open-data API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Response struct {
			Body struct {
				Items json.RawMessage `json:"items"`
			} `json:"body"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode open-data response: %w", err)
	}

	items, err := normalizeItems(payload.Response.Body.Items)
	if err != nil {
		return nil, err
	}

	anns := make([]announce.Announcement, 0, len(items))
	for _, it := range items {
		anns = append(anns, announce.Announcement{
			ID:         string(it.Sn),
			Title:      string(it.Sj),
			RentalType: string(it.TypeCdNm),
			Status:     "",
			RegDate:    announce.NormalizeDate(string(it.CrtDt)),
			RcptBegin:  announce.NormalizeDate(string(it.RceptBgnDt)),
			RcptEnd:    announce.NormalizeDate(string(it.RceptEndDt)),
			URL:        string(it.DtlURL),
		})
	}
	return anns, nil
}

// normalizeItems unwraps the items container. Observed shapes:
//
//	absent / null / ""            -> no items
//	{"item": {...}}               -> one item
//	{"item": [{...}, ...]}        -> n items
func normalizeItems(raw json.RawMessage) ([]openAPIItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] != '{' {
		// Empty results arrive as "" rather than an object.
		return nil, nil
	}

	var container struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(raw, &container); err != nil {
		return nil, fmt.Errorf("decode items container: %w", err)
	}

	item := bytes.TrimSpace(container.Item)
	if len(item) == 0 || string(item) == "null" {
		return nil, nil
	}

	switch item[0] {
	case '[':
		var list []openAPIItem
		if err := json.Unmarshal(item, &list); err != nil {
			return nil, fmt.Errorf("decode item list: %w", err)
		}
		return list, nil
	case '{':
		var one openAPIItem
		if err := json.Unmarshal(item, &one); err != nil {
			return nil, fmt.Errorf("decode single item: %w", err)
		}
		return []openAPIItem{one}, nil
	default:
		return nil, nil
	}
}
