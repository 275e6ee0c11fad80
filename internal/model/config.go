package model

import (
	"net/url"
	"strings"
	"time"
)

// BackendConfig describes the hosted database API that activity is pulled from.
type BackendConfig struct {
	URL             string `json:"url" toml:"url"`
	APIKey          string `json:"api_key" toml:"api_key"`
	RPC             string `json:"rpc" toml:"rpc"`
	SyncIntervalSec int    `json:"sync_interval_sec" toml:"sync_interval_sec"`
}

// Enabled reports whether both URL and key are present.
func (c BackendConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.APIKey) != ""
}

func (c BackendConfig) SyncInterval() time.Duration {
	interval := time.Duration(c.SyncIntervalSec) * time.Second
	if interval < 30*time.Second {
		return 30 * time.Second
	}
	return interval
}

// RPCName returns the stored procedure returning latest activity per line.
func (c BackendConfig) RPCName() string {
	name := strings.Trim(strings.TrimSpace(c.RPC), "/")
	if name == "" {
		return "get_latest_sms_details"
	}
	return name
}

// BaseURL normalizes URL to the REST root ending in /rest/v1.
func (c BackendConfig) BaseURL() string {
	raw := strings.TrimSpace(c.URL)
	if raw == "" {
		return "https:///rest/v1"
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		host := strings.TrimSpace(c.URL)
		host = strings.TrimPrefix(strings.TrimPrefix(host, "http://"), "https://")
		host = strings.Trim(host, "/")
		return "https://" + host + "/rest/v1"
	}

	scheme := strings.TrimSpace(parsed.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	path := strings.TrimSuffix(strings.TrimSpace(parsed.Path), "/")
	switch {
	case path == "", path == "/":
		path = "/rest/v1"
	case strings.HasSuffix(path, "/rest/v1"):
		// Keep an explicit REST path (for example behind reverse proxy).
	case strings.HasSuffix(path, "/rest"):
		path = path + "/v1"
	default:
		path = path + "/rest/v1"
	}

	return scheme + "://" + parsed.Host + path
}
