package store

import "errors"

var (
	// ErrTaskNotFound is returned when an operation needs a task that does not exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrPrerequisiteCycle is returned when a prerequisite would make a task depend on itself
	ErrPrerequisiteCycle = errors.New("prerequisite cycle")

	// ErrUnknownCollection is returned when restoring a snapshot with an unexpected collection
	ErrUnknownCollection = errors.New("unknown collection")
)
