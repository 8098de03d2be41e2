// Package wechat provides a client for the WeChat open platform OAuth API.
package wechat

import "time"

// Config holds configuration for the WeChat API client.
type Config struct {
	AppID   string        // Open platform app id
	Secret  string        // Open platform app secret
	BaseURL string        // Base URL for the API (e.g., "https://api.weixin.qq.com")
	Timeout time.Duration // HTTP request timeout
}

// Enabled reports whether credentials are configured.
func (c Config) Enabled() bool {
	return c.AppID != "" && c.Secret != ""
}
