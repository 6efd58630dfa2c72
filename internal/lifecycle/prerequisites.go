package lifecycle

import "github.com/t77yq/lifeos/internal/model"

// UnmetPrerequisites returns the prerequisite ids of task that resolve to a
// task that is not completed. Dangling ids are ignored.
func UnmetPrerequisites(lookup Lookup, task *model.Task) []string {
	var unmet []string
	for _, id := range task.PrerequisiteIDs {
		prereq, ok := lookup.Task(id)
		if !ok {
			continue
		}
		if !prereq.IsCompleted() {
			unmet = append(unmet, id)
		}
	}
	return unmet
}

// IsReady reports whether a pending task has every prerequisite completed
func IsReady(lookup Lookup, task *model.Task) bool {
	return task.Status == model.TaskStatusPending && len(UnmetPrerequisites(lookup, task)) == 0
}

// PrerequisiteCycle reports whether making taskID depend on prereqs would
// close a cycle in the prerequisite graph.
func PrerequisiteCycle(lookup Lookup, taskID string, prereqs []string) bool {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var visit func(id string, next []string) bool
	visit = func(id string, next []string) bool {
		if path[id] {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		path[id] = true

		for _, dep := range next {
			var deps []string
			if dep == taskID {
				deps = prereqs
			} else if t, ok := lookup.Task(dep); ok {
				deps = t.PrerequisiteIDs
			}
			if visit(dep, deps) {
				return true
			}
		}

		path[id] = false
		return false
	}

	return visit(taskID, prereqs)
}
