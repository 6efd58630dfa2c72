package lifecycle

// ComputeCost returns the total cost of a task: the linked shopping items of
// its materials plus the cost of every subtask, transitively. A completed
// task with a frozen cost returns that cost without looking at its tree.
//
// ComputeCost has no side effects. A task reached twice along one walk
// contributes nothing the second time, so a malformed cyclic tree still
// terminates.
func ComputeCost(lookup Lookup, taskID string) float64 {
	return computeCost(lookup, taskID, make(map[string]bool))
}

func computeCost(lookup Lookup, taskID string, visited map[string]bool) float64 {
	if visited[taskID] {
		return 0
	}
	visited[taskID] = true

	task, ok := lookup.Task(taskID)
	if !ok {
		return 0
	}
	if task.IsCompleted() && task.CostCache != nil {
		return *task.CostCache
	}

	var total float64
	for _, m := range task.Materials {
		if m.ShoppingItemID == "" {
			continue
		}
		if item, ok := lookup.ShoppingItem(m.ShoppingItemID); ok {
			total += item.TotalCost
		}
	}
	for _, childID := range task.SubtaskIDs {
		total += computeCost(lookup, childID, visited)
	}
	return total
}
