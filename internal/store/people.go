package store

import (
	"github.com/t77yq/lifeos/internal/lifecycle"
	"github.com/t77yq/lifeos/internal/model"
)

// Person returns a copy of the person with the given id
func (s *Store) Person(id string) (model.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people.get(id)
	if !ok {
		return model.Person{}, false
	}
	return p.Clone(), true
}

// People returns copies of all people in insertion order
func (s *Store) People() []model.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	people := make([]model.Person, 0, len(s.people.order))
	for _, p := range s.people.list() {
		people = append(people, p.Clone())
	}
	return people
}

// AddPerson stores a new person and mirrors each of its relationships onto
// the target person, unless the target is unknown or already points back.
func (s *Store) AddPerson(person model.Person) model.Person {
	s.lock()
	defer s.unlock()

	stored := person.Clone()
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	now := s.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	changes := lifecycle.ReciprocalsForAdd(&stored, view{s})
	s.people.put(stored.ID, &stored)
	s.applyEdges(changes)

	s.logActivity("added", entityPerson, stored.ID, stored.DisplayName(), "")
	return stored.Clone()
}

// UpdatePerson replaces a person and brings the reciprocal edges in line with
// its new relationship list: stale reciprocals are removed first, then every
// current one is upserted with the inverse type. The plan is computed from
// the state before the update. A missing id is a no-op.
func (s *Store) UpdatePerson(person model.Person) bool {
	s.lock()
	defer s.unlock()

	existing, ok := s.people.get(person.ID)
	if !ok {
		return false
	}

	updated := person.Clone()
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = existing.CreatedAt
	}
	updated.UpdatedAt = s.now()

	changes := lifecycle.ReciprocalsForUpdate(existing, &updated, view{s})
	s.people.put(updated.ID, &updated)
	s.applyEdges(changes)

	s.logActivity("updated", entityPerson, updated.ID, updated.DisplayName(), "")
	return true
}

// RemoveRelationship drops the edge personID -> targetID and its reciprocal.
// It reports whether either side had an edge to remove.
func (s *Store) RemoveRelationship(personID, targetID string) bool {
	s.lock()
	defer s.unlock()

	p, ok := s.people.get(personID)
	if !ok {
		return false
	}
	removed := lifecycle.ApplyEdge(p, lifecycle.EdgeChange{OwnerID: personID, TargetID: targetID, Remove: true})
	mirrored := s.applyEdges([]lifecycle.EdgeChange{{OwnerID: targetID, TargetID: personID, Remove: true}}) > 0
	if !removed && !mirrored {
		return false
	}
	if removed {
		p.UpdatedAt = s.now()
	}

	s.logActivity("removed relationship", entityPerson, p.ID, p.DisplayName(), "with "+targetID)
	return true
}

// AddPersonNote appends a note to a person
func (s *Store) AddPersonNote(personID string, note model.Comment) bool {
	s.lock()
	defer s.unlock()

	p, ok := s.people.get(personID)
	if !ok {
		return false
	}
	if note.ID == "" {
		note.ID = s.newID()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = s.now()
	}
	p.Notes = append(p.Notes, note)
	p.UpdatedAt = s.now()

	s.logActivity("added note", entityPerson, p.ID, p.DisplayName(), "")
	return true
}

// DeletePerson removes a person together with every edge pointing at them
func (s *Store) DeletePerson(id string) bool {
	s.lock()
	defer s.unlock()

	p, ok := s.people.get(id)
	if !ok {
		return false
	}
	s.people.remove(id)

	var changes []lifecycle.EdgeChange
	for _, other := range s.people.list() {
		changes = append(changes, lifecycle.EdgeChange{OwnerID: other.ID, TargetID: id, Remove: true})
	}
	s.applyEdges(changes)

	s.logActivity("deleted", entityPerson, id, p.DisplayName(), "")
	return true
}

// applyEdges applies planned edge changes, skipping owners that are gone
// applyEdges applies reciprocal edge changes and reports how many people changed
func (s *Store) applyEdges(changes []lifecycle.EdgeChange) int {
	changed := 0
	for _, change := range changes {
		owner, ok := s.people.get(change.OwnerID)
		if !ok {
			continue
		}
		if lifecycle.ApplyEdge(owner, change) {
			owner.UpdatedAt = s.now()
			changed++
		}
	}
	return changed
}
