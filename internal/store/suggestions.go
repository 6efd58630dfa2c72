package store

import (
	"fmt"
	"strings"

	"github.com/t77yq/lifeos/internal/model"
)

// PendingSuggestions returns suggestions awaiting a decision
func (s *Store) PendingSuggestions() []model.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Suggestion(nil), s.suggestions...)
}

// AddSuggestions surfaces scanned suggestions. A suggestion whose title
// matches an existing task or pending suggestion, ignoring case, is dropped.
// The surfaced suggestions are returned.
func (s *Store) AddSuggestions(suggestions []model.Suggestion) []model.Suggestion {
	s.lock()
	defer s.unlock()

	known := make(map[string]bool)
	for _, task := range s.tasks.list() {
		known[titleKey(task.Title)] = true
	}
	for _, pending := range s.suggestions {
		known[titleKey(pending.Title)] = true
	}

	var surfaced []model.Suggestion
	for _, suggestion := range suggestions {
		key := titleKey(suggestion.Title)
		if key == "" || known[key] {
			continue
		}
		known[key] = true
		if suggestion.ID == "" {
			suggestion.ID = s.newID()
		}
		surfaced = append(surfaced, suggestion)
	}
	if len(surfaced) == 0 {
		return nil
	}
	s.suggestions = append(s.suggestions, surfaced...)

	s.logActivity("surfaced", entitySuggestion, "", "suggestions", fmt.Sprintf("%d new", len(surfaced)))
	return surfaced
}

// AcceptSuggestion turns a pending suggestion into a task
func (s *Store) AcceptSuggestion(id string) (model.Task, bool) {
	s.lock()
	defer s.unlock()

	suggestion, ok := s.takeSuggestion(id)
	if !ok {
		return model.Task{}, false
	}
	task := s.insertTask(model.Task{
		Title:       suggestion.Title,
		Description: suggestion.Description,
		DueDate:     suggestion.DueDate,
	})

	s.logActivity("created", entityTask, task.ID, task.Title, "from suggestion: "+suggestion.Source)
	s.refreshNotifications()
	return task.Clone(), true
}

// RejectSuggestion drops a pending suggestion
func (s *Store) RejectSuggestion(id string) bool {
	s.lock()
	defer s.unlock()

	suggestion, ok := s.takeSuggestion(id)
	if !ok {
		return false
	}
	s.logActivity("dismissed", entitySuggestion, suggestion.ID, suggestion.Title, "")
	return true
}

func (s *Store) takeSuggestion(id string) (model.Suggestion, bool) {
	for i, suggestion := range s.suggestions {
		if suggestion.ID == id {
			s.suggestions = append(s.suggestions[:i:i], s.suggestions[i+1:]...)
			return suggestion, true
		}
	}
	return model.Suggestion{}, false
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
