package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/lifecycle"
	"github.com/t77yq/lifeos/internal/model"
)

// CompleteTask completes a task: its cost is frozen, it is marked completed
// and, when its recurrence rule allows, a pending successor is created. The
// successor is returned with ok=true. A missing or already completed task is
// left unchanged.
func (s *Store) CompleteTask(id string) (model.Task, bool) {
	successor, _, recurred := s.completeTask(id)
	return successor, recurred
}

func (s *Store) completeTask(id string) (successor model.Task, found, recurred bool) {
	s.lock()
	defer s.unlock()

	task, ok := s.tasks.get(id)
	if !ok {
		return model.Task{}, false, false
	}
	if task.IsCompleted() {
		s.logger.Debug("Task already completed", zap.String("task_id", id))
		return model.Task{}, true, false
	}
	successor, recurred = s.finishTask(task)
	return successor, true, recurred
}

// finishTask freezes the cost of task, marks it completed and creates its
// next occurrence. The caller holds the lock.
func (s *Store) finishTask(task *model.Task) (model.Task, bool) {
	id := task.ID
	now := s.now()
	cost := lifecycle.ComputeCost(view{s}, id)
	task.CostCache = &cost
	task.Status = model.TaskStatusCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now
	s.recordService(task)
	s.logActivity("completed", entityTask, task.ID, task.Title, fmt.Sprintf("cost: %.2f", cost))

	plan := lifecycle.PlanRecurrence(task, view{s}, now)
	if plan.Rule != nil {
		task.Recurrence = plan.Rule
	}
	if !plan.Recur {
		if task.Recurrence != nil {
			s.logger.Debug("Task does not recur",
				zap.String("task_id", id),
				zap.String("reason", plan.Reason))
		}
		s.refreshNotifications()
		return model.Task{}, false
	}

	next := s.insertTask(plan.Successor)
	s.logActivity("created next occurrence", entityTask, next.ID, next.Title,
		fmt.Sprintf("occurrence %d", plan.Rule.CurrentCount+1))
	s.refreshNotifications()

	s.logger.Info("Created next occurrence",
		zap.String("task_id", id),
		zap.String("next_task_id", next.ID),
		zap.String("type", string(plan.Rule.Type)))
	return next.Clone(), true
}

// recordService adds a completed task to its asset's service history
func (s *Store) recordService(task *model.Task) {
	if task.AssetID == "" {
		return
	}
	asset, ok := s.assets.get(task.AssetID)
	if !ok {
		return
	}
	for _, existing := range asset.ServiceHistoryTaskIDs {
		if existing == task.ID {
			return
		}
	}
	asset.ServiceHistoryTaskIDs = append(asset.ServiceHistoryTaskIDs, task.ID)
	asset.UpdatedAt = s.now()
}
