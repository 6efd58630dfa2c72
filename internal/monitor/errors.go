package monitor

import "errors"

var (
	ErrRuleNotFound     = errors.New("alert rule not found")
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrInvalidThreshold = errors.New("threshold must be positive")
)
