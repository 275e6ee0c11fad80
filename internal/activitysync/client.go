package activitysync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/model"
)

// LatestActivity is one row of the backend's latest-activity RPC. Owner and
// threshold columns are ignored; both are managed locally.
type LatestActivity struct {
	PhoneNumber    string
	LastActivityAt *time.Time
}

type Client struct {
	cfg  model.BackendConfig
	http *resty.Client
}

func NewClient(cfg model.BackendConfig) *Client {
	key := strings.TrimSpace(cfg.APIKey)
	client := resty.New().
		SetBaseURL(cfg.BaseURL()).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", key).
		SetAuthToken(key)
	return &Client{cfg: cfg, http: client}
}

type latestRow struct {
	PhoneNumber string `json:"phone_number"`
	LastSMSTime string `json:"last_sms_time"`
}

// FetchLatest calls the configured RPC and returns rows with parsed timestamps.
// Rows with an unparseable timestamp keep a nil LastActivityAt.
func (c *Client) FetchLatest(ctx context.Context) ([]LatestActivity, error) {
	var rows []latestRow
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{}).
		SetResult(&rows).
		Post("/rpc/" + c.cfg.RPCName())
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, fmt.Errorf("activity rpc status %d: %s", resp.StatusCode(), body)
	}

	out := make([]LatestActivity, 0, len(rows))
	for _, row := range rows {
		item := LatestActivity{PhoneNumber: strings.TrimSpace(row.PhoneNumber)}
		if ts, err := activity.ParseTimestamp(row.LastSMSTime); err == nil {
			item.LastActivityAt = ts
		}
		out = append(out, item)
	}
	return out, nil
}
