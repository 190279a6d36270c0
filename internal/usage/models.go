package usage

import "time"

// TokenUsage is the DB model for daily token usage, one row per
// (usage_date, provider).
type TokenUsage struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UsageDate    time.Time `gorm:"column:usage_date;type:date"`
	Provider     string    `gorm:"column:provider"`
	InputTokens  int64     `gorm:"column:input_tokens"`
	OutputTokens int64     `gorm:"column:output_tokens"`
	RequestCount int64     `gorm:"column:request_count"`
	Version      int64     `gorm:"column:version"`
}

// TableName returns the GORM table name.
func (TokenUsage) TableName() string {
	return "token_usage"
}

// DailyUsage is the view model served by the usage endpoints.
type DailyUsage struct {
	UsageDate    time.Time `json:"usage_date"`
	Provider     string    `json:"provider"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	RequestCount int64     `json:"request_count"`
}

// TotalTokens returns the input+output token sum.
func (d DailyUsage) TotalTokens() int64 {
	return d.InputTokens + d.OutputTokens
}
