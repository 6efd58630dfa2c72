package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/model"
)

// Entity types recorded in activity entries
const (
	entityTask         = "task"
	entityPerson       = "person"
	entityAsset        = "asset"
	entityShoppingItem = "shopping_item"
	entitySuggestion   = "suggestion"
	entityNotification = "notification"
)

// EventSink receives activity entries and newly raised notifications after
// the mutation that produced them has finished.
type EventSink interface {
	ActivityLogged(entry model.ActivityLog)
	NotificationRaised(notification model.Notification)
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new entity ids are generated
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithEventSink registers a sink for activity and notification events. Sinks
// are called in registration order.
func WithEventSink(sink EventSink) Option {
	return func(s *Store) { s.events = append(s.events, sink) }
}

// Store owns all household state. Mutators run to completion under a single
// writer lock; readers get deep copies.
type Store struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	events []EventSink

	mu            sync.RWMutex
	version       uint64
	tasks         *collection[model.Task]
	people        *collection[model.Person]
	assets        *collection[model.Asset]
	shopping      *collection[model.ShoppingItem]
	notifications []model.Notification
	activity      []model.ActivityLog
	suggestions   []model.Suggestion
	outbox        []event
}

type event struct {
	activity     *model.ActivityLog
	notification *model.Notification
}

// New creates an empty store
func New(logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		logger:   logger.Named("store"),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		tasks:    newCollection[model.Task](),
		people:   newCollection[model.Person](),
		assets:   newCollection[model.Asset](),
		shopping: newCollection[model.ShoppingItem](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version increases on every change to the store
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ActivityLog returns the audit trail in insertion order
func (s *Store) ActivityLog() []model.ActivityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ActivityLog(nil), s.activity...)
}

// lock takes the writer lock. Pair with defer s.unlock().
func (s *Store) lock() {
	s.mu.Lock()
}

// unlock releases the writer lock and then hands queued events to the sink
func (s *Store) unlock() {
	pending := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	for _, e := range pending {
		for _, sink := range s.events {
			switch {
			case e.activity != nil:
				sink.ActivityLogged(*e.activity)
			case e.notification != nil:
				sink.NotificationRaised(*e.notification)
			}
		}
	}
}

// logActivity appends one audit entry. Called after the primary mutation.
func (s *Store) logActivity(action, entityType, entityID, entityName, details string) {
	entry := model.ActivityLog{
		ID:         s.newID(),
		Timestamp:  s.now(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
	}
	s.activity = append(s.activity, entry)
	s.version++
	s.outbox = append(s.outbox, event{activity: &entry})

	s.logger.Debug("Activity",
		zap.String("action", action),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID),
		zap.String("entity_name", entityName))
}

// view exposes the raw collections to the lifecycle package. Only valid while
// the caller holds the lock.
type view struct {
	s *Store
}

func (v view) Task(id string) (*model.Task, bool) { return v.s.tasks.get(id) }

func (v view) Asset(id string) (*model.Asset, bool) { return v.s.assets.get(id) }

func (v view) Person(id string) (*model.Person, bool) { return v.s.people.get(id) }

func (v view) ShoppingItem(id string) (*model.ShoppingItem, bool) { return v.s.shopping.get(id) }
