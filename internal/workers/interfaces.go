// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start is expected to return promptly, spawning goroutines internally;
// Stop blocks until the worker's goroutines have drained.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
