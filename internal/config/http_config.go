package config

import (
	"strconv"
	"time"
)

const (
	httpTimeoutVar = "HTTP_TIMEOUT_SECONDS"
	userAgentVar   = "USER_AGENT"

	defaultHTTPTimeout = 30 * time.Second
)

type HTTP struct{}

var _ HTTPConfig = HTTP{}

func (HTTP) GetHTTPTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(httpTimeoutVar, ""))
	if err != nil || seconds <= 0 {
		return defaultHTTPTimeout
	}
	return time.Duration(seconds) * time.Second
}

func (HTTP) GetUserAgent() string {
	return GetEnv(userAgentVar, "issuedesk-go")
}
