package config

import (
	"strings"
	"time"
)

// Static is a Config with fixed values, for tests and for embedding
// applications that resolve settings themselves. Zero fields fall back to
// the same defaults as the environment-variable configuration.
type Static struct {
	AppName     string
	APIBaseURL  string
	DataFolder  string
	Environment string
	UserAgent   string
	HTTPTimeout time.Duration
}

var _ Config = Static{}

func (s Static) GetAppName() string {
	if s.AppName == "" {
		return "IssueDesk"
	}
	return s.AppName
}

func (s Static) GetAPIBaseURL() string {
	return strings.TrimRight(s.APIBaseURL, "/")
}

func (s Static) GetDataFolder() string {
	if s.DataFolder == "" {
		return defaultDataFolder()
	}
	return s.DataFolder
}

func (s Static) GetEnv() string {
	if s.Environment == "" {
		return "DEV"
	}
	return s.Environment
}

func (s Static) GetHTTPTimeout() time.Duration {
	if s.HTTPTimeout <= 0 {
		return defaultHTTPTimeout
	}
	return s.HTTPTimeout
}

func (s Static) GetUserAgent() string {
	if s.UserAgent == "" {
		return "issuedesk-go"
	}
	return s.UserAgent
}
