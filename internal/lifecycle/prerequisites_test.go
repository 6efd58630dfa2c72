package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/t77yq/lifeos/internal/model"
)

func TestUnmetPrerequisites(t *testing.T) {
	l := newFakeLookup()
	l.addTask(&model.Task{ID: "buy", Status: model.TaskStatusCompleted})
	l.addTask(&model.Task{ID: "prime", Status: model.TaskStatusPending})
	paint := l.addTask(&model.Task{ID: "paint", Status: model.TaskStatusPending,
		PrerequisiteIDs: []string{"buy", "prime", "ghost"}})

	assert.Equal(t, []string{"prime"}, UnmetPrerequisites(l, paint))
	assert.False(t, IsReady(l, paint))

	l.tasks["prime"].Status = model.TaskStatusCompleted
	assert.Empty(t, UnmetPrerequisites(l, paint))
	assert.True(t, IsReady(l, paint))

	paint.Status = model.TaskStatusInProgress
	assert.False(t, IsReady(l, paint))
}

func TestPrerequisiteCycle(t *testing.T) {
	l := newFakeLookup()
	l.addTask(&model.Task{ID: "a"})
	l.addTask(&model.Task{ID: "b", PrerequisiteIDs: []string{"a"}})
	l.addTask(&model.Task{ID: "c", PrerequisiteIDs: []string{"b"}})

	assert.False(t, PrerequisiteCycle(l, "d", []string{"c"}))
	assert.True(t, PrerequisiteCycle(l, "a", []string{"c"}))
	assert.True(t, PrerequisiteCycle(l, "a", []string{"a"}))
	assert.False(t, PrerequisiteCycle(l, "c", []string{"b", "a"}))
}
