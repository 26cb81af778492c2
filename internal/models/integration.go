package models

import (
	"encoding/json"
	"time"
)

// Known integration platforms
const (
	PlatformGoogleCloud = "google_cloud"
	PlatformPayabl      = "payabl"
	PlatformIPushPull   = "ipushpull"
)

// Integration statuses
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusError        = "error"
)

// Integration is the connection state of a third-party platform for a user
type Integration struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Platform    string          `json:"platform"`
	Status      string          `json:"status"`
	LastSync    *time.Time      `json:"last_sync,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	AccessToken string          `json:"-"` // Encrypted at rest
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidPlatform reports whether p is a supported platform
func ValidPlatform(p string) bool {
	switch p {
	case PlatformGoogleCloud, PlatformPayabl, PlatformIPushPull:
		return true
	}
	return false
}

// ValidStatus reports whether s is a supported status
func ValidStatus(s string) bool {
	switch s {
	case StatusConnected, StatusDisconnected, StatusError:
		return true
	}
	return false
}
