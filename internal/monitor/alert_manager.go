package monitor

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

const alertIDPrefix = "monitor-"

// Fixed ids for the built-in rules, so their notifications survive restarts
const (
	RuleOverdueTasks = "overdue-tasks"
	RuleSyncFailures = "sync-failures"
)

// NotificationRaiser adds a notification unless one with the same id exists
type NotificationRaiser interface {
	AddNotification(n model.Notification) bool
}

// AlertManager evaluates alert rules against collected stats
type AlertManager struct {
	logger *zap.Logger
	raiser NotificationRaiser
	now    func() time.Time
	mu     sync.RWMutex
	rules  map[string]*model.AlertRule
}

// NewAlertManager creates a new alert manager
func NewAlertManager(raiser NotificationRaiser, logger *zap.Logger) *AlertManager {
	return &AlertManager{
		logger: logger.Named("alert-manager"),
		raiser: raiser,
		now:    time.Now,
		rules:  make(map[string]*model.AlertRule),
	}
}

// AlertID is the notification id raised for a rule
func AlertID(ruleID string) string { return alertIDPrefix + ruleID }

// DefaultRules returns the built-in rules. A zero threshold leaves its rule out.
func DefaultRules(overdueThreshold, syncFailureThreshold int) []*model.AlertRule {
	var rules []*model.AlertRule
	if overdueThreshold > 0 {
		rules = append(rules, &model.AlertRule{
			ID:        RuleOverdueTasks,
			Name:      "Overdue tasks piling up",
			Metric:    model.MetricOverdueTasks,
			Threshold: overdueThreshold,
			Type:      model.NotificationAlert,
			Message:   fmt.Sprintf("%d or more tasks are overdue", overdueThreshold),
		})
	}
	if syncFailureThreshold > 0 {
		rules = append(rules, &model.AlertRule{
			ID:        RuleSyncFailures,
			Name:      "Snapshots failing to save",
			Metric:    model.MetricSyncFailures,
			Threshold: syncFailureThreshold,
			Type:      model.NotificationAlert,
			Message:   "Changes are not being saved, check the storage backend",
		})
	}
	return rules
}

// AddRule adds a new alert rule
func (m *AlertManager) AddRule(rule *model.AlertRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if rule.Type == "" {
		rule.Type = model.NotificationAlert
	}
	rule.CreatedAt = m.now()
	rule.UpdatedAt = rule.CreatedAt

	m.mu.Lock()
	m.rules[rule.ID] = rule
	m.mu.Unlock()

	m.logger.Info("Added alert rule",
		zap.String("rule_id", rule.ID),
		zap.String("metric", string(rule.Metric)),
		zap.Int("threshold", rule.Threshold))
	return nil
}

// UpdateRule updates an existing alert rule
func (m *AlertManager) UpdateRule(rule *model.AlertRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.rules[rule.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, rule.ID)
	}
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = m.now()
	m.rules[rule.ID] = rule
	return nil
}

// DeleteRule deletes an alert rule
func (m *AlertManager) DeleteRule(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rules[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	delete(m.rules, id)
	return nil
}

// GetRule returns a copy of a rule
func (m *AlertManager) GetRule(id string) (model.AlertRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[id]
	if !ok {
		return model.AlertRule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	return *rule, nil
}

// Rules lists rules ordered by id
func (m *AlertManager) Rules() []model.AlertRule {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rules := make([]model.AlertRule, 0, len(m.rules))
	for _, rule := range m.rules {
		rules = append(rules, *rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// Evaluate raises one notification per rule whose metric reached its
// threshold. A rule's notification is raised once while it stays in the feed.
func (m *AlertManager) Evaluate(stats model.HouseholdStats) int {
	raised := 0
	for _, rule := range m.Rules() {
		value, ok := stats.Value(rule.Metric)
		if !ok || value < rule.Threshold {
			continue
		}

		message := rule.Message
		if message == "" {
			message = fmt.Sprintf("%s: %s is %d", rule.Name, rule.Metric, value)
		}
		if !m.raiser.AddNotification(model.Notification{
			ID:             AlertID(rule.ID),
			Type:           rule.Type,
			Message:        message,
			Timestamp:      stats.CollectedAt,
			ActionRequired: true,
		}) {
			continue
		}

		raised++
		m.logger.Info("Alert raised",
			zap.String("rule_id", rule.ID),
			zap.String("metric", string(rule.Metric)),
			zap.Int("value", value),
			zap.Int("threshold", rule.Threshold))
	}
	return raised
}

func validateRule(rule *model.AlertRule) error {
	var probe model.HouseholdStats
	if _, ok := probe.Value(rule.Metric); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, rule.Metric)
	}
	if rule.Threshold <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, rule.Threshold)
	}
	return nil
}
