package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/lifecycle"
	"github.com/t77yq/lifeos/internal/model"
)

// Task returns a copy of the task with the given id
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks.get(id)
	if !ok {
		return model.Task{}, false
	}
	return task.Clone(), true
}

// Tasks returns copies of all tasks in insertion order
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]model.Task, 0, len(s.tasks.order))
	for _, task := range s.tasks.list() {
		tasks = append(tasks, task.Clone())
	}
	return tasks
}

// Subtasks returns the resolvable children of a task in SubtaskIDs order.
// Dangling child ids are skipped.
func (s *Store) Subtasks(id string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parent, ok := s.tasks.get(id)
	if !ok {
		return nil
	}
	var children []model.Task
	for _, childID := range parent.SubtaskIDs {
		if child, ok := s.tasks.get(childID); ok {
			children = append(children, child.Clone())
		}
	}
	return children
}

// AddTask stores a new task and returns the stored copy. Missing id, status,
// urgency, importance and context are defaulted. Tree edges are stored as
// given; use AddSubtask to create a child with both edges.
func (s *Store) AddTask(task model.Task) model.Task {
	s.lock()
	defer s.unlock()

	stored := s.insertTask(task)
	s.logActivity("created", entityTask, stored.ID, stored.Title, "")
	s.refreshNotifications()
	return stored.Clone()
}

// AddSubtask creates child under parentID, keeping the parent's SubtaskIDs and
// the child's ParentID consistent.
func (s *Store) AddSubtask(parentID string, child model.Task) (model.Task, error) {
	s.lock()
	defer s.unlock()

	parent, ok := s.tasks.get(parentID)
	if !ok {
		return model.Task{}, fmt.Errorf("failed to add subtask to %s: %w", parentID, ErrTaskNotFound)
	}

	child.ParentID = parentID
	stored := s.insertTask(child)
	parent.SubtaskIDs = append(parent.SubtaskIDs, stored.ID)
	parent.UpdatedAt = s.now()

	s.logActivity("created subtask", entityTask, stored.ID, stored.Title, "parent: "+parent.Title)
	s.refreshNotifications()
	return stored.Clone(), nil
}

func (s *Store) insertTask(task model.Task) *model.Task {
	stored := task.Clone()
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	if stored.Status == "" {
		stored.Status = model.TaskStatusPending
	}
	if !stored.Urgency.Valid() {
		stored.Urgency = model.LevelMedium
	}
	if !stored.Importance.Valid() {
		stored.Importance = model.LevelMedium
	}
	if stored.Context == "" {
		stored.Context = model.ContextPersonal
	}
	now := s.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.tasks.put(stored.ID, &stored)
	return &stored
}

// UpdateTask replaces the task with the same id. A missing id is a no-op and
// reports false. The frozen cost of a completed task cannot be overwritten,
// and an update that completes a task goes through CompleteTask's path so the
// cost is computed and the next occurrence created.
func (s *Store) UpdateTask(task model.Task) bool {
	s.lock()
	defer s.unlock()

	existing, ok := s.tasks.get(task.ID)
	if !ok {
		return false
	}

	updated := task.Clone()
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = existing.CreatedAt
	}
	completing := !existing.IsCompleted() && updated.IsCompleted()
	switch {
	case existing.IsCompleted():
		updated.CostCache = nil
		if existing.CostCache != nil {
			frozen := *existing.CostCache
			updated.CostCache = &frozen
		}
	case completing:
		updated.Status = existing.Status
		updated.CostCache = nil
		updated.CompletedAt = nil
	default:
		updated.CostCache = nil
	}
	updated.UpdatedAt = s.now()
	s.tasks.put(updated.ID, &updated)

	s.logActivity("updated", entityTask, updated.ID, updated.Title, "")
	if completing {
		s.finishTask(&updated)
		return true
	}
	s.refreshNotifications()
	return true
}

// SetTaskStatus moves a task to status. Completing goes through CompleteTask
// so that cost is frozen and recurrence runs.
func (s *Store) SetTaskStatus(id string, status model.TaskStatus) bool {
	if status == model.TaskStatusCompleted {
		_, found, _ := s.completeTask(id)
		return found
	}

	s.lock()
	defer s.unlock()

	task, ok := s.tasks.get(id)
	if !ok || task.Status == status {
		return ok
	}
	previous := task.Status
	task.Status = status
	task.UpdatedAt = s.now()

	s.logActivity("changed status", entityTask, task.ID, task.Title,
		fmt.Sprintf("%s -> %s", previous, status))
	s.refreshNotifications()
	return true
}

// AddComment appends a comment to a task
func (s *Store) AddComment(taskID string, comment model.Comment) bool {
	s.lock()
	defer s.unlock()

	task, ok := s.tasks.get(taskID)
	if !ok {
		return false
	}
	if comment.ID == "" {
		comment.ID = s.newID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = s.now()
	}
	task.Comments = append(task.Comments, comment)
	task.UpdatedAt = s.now()

	s.logActivity("commented", entityTask, task.ID, task.Title, "")
	return true
}

// DeleteTask removes a task. The id is also unlinked from its parent's
// SubtaskIDs and from other tasks' prerequisites; children, materials and
// shopping links are left in place.
func (s *Store) DeleteTask(id string) bool {
	s.lock()
	defer s.unlock()

	task, ok := s.tasks.get(id)
	if !ok {
		return false
	}
	s.tasks.remove(id)

	for _, other := range s.tasks.list() {
		other.SubtaskIDs = removeID(other.SubtaskIDs, id)
		other.PrerequisiteIDs = removeID(other.PrerequisiteIDs, id)
	}
	if len(task.SubtaskIDs) > 0 {
		s.logger.Debug("Deleted task leaves subtasks in place",
			zap.String("task_id", id),
			zap.Int("subtasks", len(task.SubtaskIDs)))
	}

	s.logActivity("deleted", entityTask, id, task.Title, "")
	s.refreshNotifications()
	return true
}

// ComputeCost returns the aggregated cost of a task. See lifecycle.ComputeCost.
func (s *Store) ComputeCost(id string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lifecycle.ComputeCost(view{s}, id)
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
