package model

import "time"

// Asset is a vehicle, appliance or other thing that needs maintenance
type Asset struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Make  string `json:"make,omitempty" yaml:"make,omitempty"`
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	Year  int    `json:"year,omitempty" yaml:"year,omitempty"`

	Specs map[string]string `json:"specs,omitempty" yaml:"specs,omitempty"`

	// CurrentUsage is nil until a first reading is recorded
	CurrentUsage *float64 `json:"current_usage,omitempty" yaml:"current_usage,omitempty"`
	UsageUnit    string   `json:"usage_unit,omitempty" yaml:"usage_unit,omitempty"`

	ServiceHistoryTaskIDs []string `json:"service_history_task_ids,omitempty" yaml:"service_history_task_ids,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy of the asset
func (a Asset) Clone() Asset {
	c := a
	if a.Specs != nil {
		c.Specs = make(map[string]string, len(a.Specs))
		for k, v := range a.Specs {
			c.Specs[k] = v
		}
	}
	if a.CurrentUsage != nil {
		v := *a.CurrentUsage
		c.CurrentUsage = &v
	}
	c.ServiceHistoryTaskIDs = cloneStrings(a.ServiceHistoryTaskIDs)
	return c
}
