package domain

// ProgressManager creates progress tasks for long-running work
type ProgressManager interface {
	// StartTask starts a task with a description and a total item count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true when progress is actually rendered
	IsInteractive() bool

	// Close finishes every task that is still open
	Close()
}

// TaskProgress tracks a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
