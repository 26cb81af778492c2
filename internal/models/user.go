package models

import "time"

// User represents a founder account
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Not serialized
	Email        string     `json:"email,omitempty"`
	CompanyName  string     `json:"company_name,omitempty"`
	Industry     string     `json:"industry,omitempty"`
	FoundingDate *time.Time `json:"founding_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
