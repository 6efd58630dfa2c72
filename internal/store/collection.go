package store

// collection keeps entities by id and remembers insertion order
type collection[T any] struct {
	order []string
	items map[string]*T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]*T)}
}

func (c *collection[T]) get(id string) (*T, bool) {
	item, ok := c.items[id]
	return item, ok
}

// put inserts or replaces the entity stored under id
func (c *collection[T]) put(id string, item *T) {
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

func (c *collection[T]) remove(id string) bool {
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) list() []*T {
	items := make([]*T, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.items[id])
	}
	return items
}

func (c *collection[T]) reset() {
	c.order = nil
	c.items = make(map[string]*T)
}
