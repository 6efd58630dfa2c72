package store

import (
	"fmt"
	"time"

	"github.com/t77yq/lifeos/internal/lifecycle"
	"github.com/t77yq/lifeos/internal/model"
)

// Notifications returns the feed, newest first
func (s *Store) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Notification(nil), s.notifications...)
}

// UnreadNotifications returns unread notifications that are not snoozed at now
func (s *Store) UnreadNotifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var unread []model.Notification
	for _, n := range s.notifications {
		if !n.IsRead && !n.IsSnoozed(now) {
			unread = append(unread, n)
		}
	}
	return unread
}

// GenerateNotifications re-derives overdue and usage-check notifications and
// prepends those whose id is not yet in the feed. It returns how many were
// added. Running it again on unchanged state adds nothing.
func (s *Store) GenerateNotifications() int {
	s.lock()
	defer s.unlock()
	return s.refreshNotifications()
}

// refreshNotifications runs the generator. Caller holds the lock.
func (s *Store) refreshNotifications() int {
	derived := lifecycle.DeriveNotifications(s.tasks.list(), s.now())
	return s.mergeNotifications(derived)
}

// raiseNotification adds a single notification unless its id is present
func (s *Store) raiseNotification(n model.Notification) bool {
	return s.mergeNotifications([]model.Notification{n}) == 1
}

func (s *Store) mergeNotifications(derived []model.Notification) int {
	merged, added := lifecycle.MergeNotifications(s.notifications, derived)
	if len(added) == 0 {
		return 0
	}
	s.notifications = merged
	s.version++
	for i := range added {
		n := added[i]
		s.outbox = append(s.outbox, event{notification: &n})
	}
	return len(added)
}

// AddNotification prepends a notification. An id already in the feed is
// ignored and reported as false.
func (s *Store) AddNotification(n model.Notification) bool {
	s.lock()
	defer s.unlock()

	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = s.now()
	}
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	return s.raiseNotification(n)
}

// MarkNotificationRead marks one notification as read
func (s *Store) MarkNotificationRead(id string) bool {
	return s.updateNotification(id, "marked read", func(n *model.Notification) { n.IsRead = true })
}

// MarkAllNotificationsRead marks the whole feed as read. An already read feed
// is left untouched.
func (s *Store) MarkAllNotificationsRead() {
	s.lock()
	defer s.unlock()

	marked := 0
	for i := range s.notifications {
		if !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			marked++
		}
	}
	if marked == 0 {
		return
	}
	s.logActivity("marked all read", entityNotification, "", "notifications", fmt.Sprintf("%d marked", marked))
}

// PinNotification pins or unpins a notification
func (s *Store) PinNotification(id string, pinned bool) bool {
	action := "pinned"
	if !pinned {
		action = "unpinned"
	}
	return s.updateNotification(id, action, func(n *model.Notification) { n.IsPinned = pinned })
}

// SnoozeNotification hides a notification until the given time
func (s *Store) SnoozeNotification(id string, until time.Time) bool {
	return s.updateNotification(id, "snoozed", func(n *model.Notification) {
		snoozed := until
		n.SnoozedUntil = &snoozed
	})
}

// DeleteNotification removes a notification from the feed. A generated
// notification whose condition still holds comes back on the next scan.
func (s *Store) DeleteNotification(id string) bool {
	s.lock()
	defer s.unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i:i], s.notifications[i+1:]...)
			s.logActivity("deleted", entityNotification, n.ID, n.Message, "")
			return true
		}
	}
	return false
}

func (s *Store) updateNotification(id, action string, mutate func(*model.Notification)) bool {
	s.lock()
	defer s.unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			mutate(&s.notifications[i])
			s.logActivity(action, entityNotification, id, s.notifications[i].Message, "")
			return true
		}
	}
	return false
}
