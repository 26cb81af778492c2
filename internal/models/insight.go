package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// InsightType categorises an insight
type InsightType string

const (
	InsightOpportunity  InsightType = "opportunity"
	InsightRisk         InsightType = "risk"
	InsightOptimization InsightType = "optimization"
)

// Priority ranks an insight
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is a narrative recommendation shown on the insights page
type Insight struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        InsightType     `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Impact      decimal.Decimal `json:"impact"` // GBP
	Confidence  float64         `json:"confidence"`
	Priority    Priority        `json:"priority"`
	Actionable  bool            `json:"actionable"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
