package model

import "time"

// RecurrenceType selects how a successor task is scheduled
type RecurrenceType string

const (
	RecurrenceTime  RecurrenceType = "time"
	RecurrenceUsage RecurrenceType = "usage"
)

// RecurrenceUnit is a calendar unit used by time rules and usage check intervals
type RecurrenceUnit string

const (
	UnitDay   RecurrenceUnit = "day"
	UnitWeek  RecurrenceUnit = "week"
	UnitMonth RecurrenceUnit = "month"
	UnitYear  RecurrenceUnit = "year"
)

// EndCondition stops a time rule from recurring
type EndCondition string

const (
	EndNever EndCondition = "never"
	EndCount EndCondition = "count"
	EndDate  EndCondition = "date"
)

// RecurrenceRule describes whether and how a successor task is generated on completion
type RecurrenceRule struct {
	Type RecurrenceType `json:"type" yaml:"type"`

	// Time based
	Interval     int            `json:"interval,omitempty" yaml:"interval,omitempty"`
	Unit         RecurrenceUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
	EndCondition EndCondition   `json:"end_condition,omitempty" yaml:"end_condition,omitempty"`
	EndCount     int            `json:"end_count,omitempty" yaml:"end_count,omitempty"`
	EndDate      *time.Time     `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	CurrentCount int            `json:"current_count" yaml:"current_count"`

	// Usage based
	AssetID            string         `json:"asset_id,omitempty" yaml:"asset_id,omitempty"`
	UsageThreshold     float64        `json:"usage_threshold,omitempty" yaml:"usage_threshold,omitempty"`
	LastUsageReading   float64        `json:"last_usage_reading" yaml:"last_usage_reading"`
	UsageCheckInterval int            `json:"usage_check_interval,omitempty" yaml:"usage_check_interval,omitempty"`
	UsageCheckUnit     RecurrenceUnit `json:"usage_check_unit,omitempty" yaml:"usage_check_unit,omitempty"`
	LastUsageCheckDate *time.Time     `json:"last_usage_check_date,omitempty" yaml:"last_usage_check_date,omitempty"`
	// AlertedReading is the baseline the last usage alert was raised against
	AlertedReading *float64 `json:"alerted_reading,omitempty" yaml:"alerted_reading,omitempty"`
}

// Clone returns a deep copy of the rule
func (r RecurrenceRule) Clone() RecurrenceRule {
	c := r
	c.EndDate = cloneTime(r.EndDate)
	c.LastUsageCheckDate = cloneTime(r.LastUsageCheckDate)
	if r.AlertedReading != nil {
		v := *r.AlertedReading
		c.AlertedReading = &v
	}
	return c
}
