package domain

import "context"

// Step is one write an action commits. Rollback undoes a successful
// Execute and may run under a different context than Execute did.
type Step interface {
	Execute(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Description names the write in logs, e.g. "create item 42".
	Description() string
}

// WriteStager queues a write for the action's commit. Reads of key made
// after Stage see entity, not the stored state.
type WriteStager interface {
	Stage(key string, entity any, step Step) error
}

// StepFunc adapts a pair of functions to the Step interface.
type StepFunc struct {
	Desc string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// Execute calls Do.
func (s StepFunc) Execute(ctx context.Context) error {
	if s.Do == nil {
		return nil
	}
	return s.Do(ctx)
}

// Rollback calls Undo when set.
func (s StepFunc) Rollback(ctx context.Context) error {
	if s.Undo == nil {
		return nil
	}
	return s.Undo(ctx)
}

// Description returns Desc.
func (s StepFunc) Description() string { return s.Desc }
