package lifecycle

import "github.com/t77yq/lifeos/internal/model"

// fakeLookup is an in-memory Lookup for tests
type fakeLookup struct {
	tasks  map[string]*model.Task
	assets map[string]*model.Asset
	people map[string]*model.Person
	items  map[string]*model.ShoppingItem
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		tasks:  make(map[string]*model.Task),
		assets: make(map[string]*model.Asset),
		people: make(map[string]*model.Person),
		items:  make(map[string]*model.ShoppingItem),
	}
}

func (l *fakeLookup) addTask(t *model.Task) *model.Task {
	l.tasks[t.ID] = t
	return t
}

func (l *fakeLookup) Task(id string) (*model.Task, bool) {
	t, ok := l.tasks[id]
	return t, ok
}

func (l *fakeLookup) Asset(id string) (*model.Asset, bool) {
	a, ok := l.assets[id]
	return a, ok
}

func (l *fakeLookup) Person(id string) (*model.Person, bool) {
	p, ok := l.people[id]
	return p, ok
}

func (l *fakeLookup) ShoppingItem(id string) (*model.ShoppingItem, bool) {
	i, ok := l.items[id]
	return i, ok
}

func float(v float64) *float64 { return &v }
