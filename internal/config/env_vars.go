package config

import (
	"os"
	"strings"
)

const (
	appNameVar = "APP_NAME"
	folderVar  = "FOLDER"
	apiURLVar  = "API_BASE_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "IssueDesk")
}

// GetAPIBaseURL returns the base URL of the backend REST API
// (e.g., "https://tracker.example.com/api"). A trailing slash is stripped
// so that request paths can always start with "/".
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://localhost:8000/api"), "/")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderVar, defaultDataFolder())
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// defaultDataFolder places the session file under the user's config
// directory, falling back to the working directory when it is unknown.
func defaultDataFolder() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./.issuedesk"
	}
	return dir + string(os.PathSeparator) + "issuedesk"
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
