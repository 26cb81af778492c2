package models

import "time"

// Impact classifies how a news item affects the founder's business
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Valid reports whether i is one of the known impact labels
func (i Impact) Valid() bool {
	switch i {
	case ImpactPositive, ImpactNegative, ImpactNeutral:
		return true
	}
	return false
}

// NewsArticle is a stored, scored and summarised article
type NewsArticle struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Source         string    `json:"source"`
	URL            string    `json:"url,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
	RelevanceScore float64   `json:"relevance_score"`
	Impact         Impact    `json:"impact"`
	CreatedAt      time.Time `json:"created_at"`
}
