package store

import (
	"fmt"

	"github.com/t77yq/lifeos/internal/lifecycle"
	"github.com/t77yq/lifeos/internal/model"
)

// AddPrerequisite makes taskID depend on prerequisiteID
func (s *Store) AddPrerequisite(taskID, prerequisiteID string) error {
	s.lock()
	defer s.unlock()

	task, ok := s.tasks.get(taskID)
	if !ok {
		return fmt.Errorf("failed to add prerequisite to %s: %w", taskID, ErrTaskNotFound)
	}
	prereq, ok := s.tasks.get(prerequisiteID)
	if !ok {
		return fmt.Errorf("failed to add prerequisite %s: %w", prerequisiteID, ErrTaskNotFound)
	}
	for _, id := range task.PrerequisiteIDs {
		if id == prerequisiteID {
			return nil
		}
	}

	next := append(append([]string(nil), task.PrerequisiteIDs...), prerequisiteID)
	if lifecycle.PrerequisiteCycle(view{s}, taskID, next) {
		return fmt.Errorf("failed to add prerequisite %s to %s: %w", prerequisiteID, taskID, ErrPrerequisiteCycle)
	}
	task.PrerequisiteIDs = next
	task.UpdatedAt = s.now()

	s.logActivity("added prerequisite", entityTask, task.ID, task.Title, "requires: "+prereq.Title)
	return nil
}

// UnmetPrerequisites returns the ids of prerequisites of a task that are not
// yet completed
func (s *Store) UnmetPrerequisites(taskID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks.get(taskID)
	if !ok {
		return nil
	}
	return lifecycle.UnmetPrerequisites(view{s}, task)
}

// ReadyTasks returns pending tasks whose prerequisites are all completed
func (s *Store) ReadyTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ready []model.Task
	for _, task := range s.tasks.list() {
		if lifecycle.IsReady(view{s}, task) {
			ready = append(ready, task.Clone())
		}
	}
	return ready
}
