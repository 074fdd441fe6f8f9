package store

import "github.com/DerithAI/WOLF-AI/models"

// HuntStore defines the interface for hunt persistence.
// It outlines the contract for queueing hunts, observing them, applying
// lifecycle mutations, and resource cleanup. Hunts are never physically
// deleted; terminal records stay in the store as history.
type HuntStore interface {
	// Initialize configures the store with necessary parameters, such as
	// file path and data format.
	// It should be called before any other store operations.
	Initialize(config map[string]string) error

	// Add constructs a hunt in pending status with a freshly generated id
	// and persists it synchronously before returning.
	// The directive and assignee are validated first; no hunt record
	// exists if validation fails. Zero retryLimit and timeout fall back
	// to the store's defaults.
	Add(directive models.Directive, assignee string, priority models.HuntPriority, retryLimit, timeout int) (models.Hunt, error)

	// Get retrieves a hunt by its unique identifier.
	// It returns a NotFoundError if no hunt has that id.
	Get(id string) (models.Hunt, error)

	// List retrieves hunts in insertion order.
	// It can optionally apply a filter function and a sort function.
	// If filterFn is nil, all hunts are returned (subject to sorting).
	// If sortFn is nil, insertion order is preserved.
	List(filterFn func(models.Hunt) bool, sortFn func([]models.Hunt) []models.Hunt) ([]models.Hunt, error)

	// Update applies a field mutation atomically under the store's lock
	// and persists the full collection afterward. The mutator receives a
	// copy to modify; the stored record changes only if both the mutator
	// and the subsequent persist succeed. Status changes away from a
	// terminal state are rejected.
	Update(id string, mutate func(*models.Hunt) error) (models.Hunt, error)

	// Cancel transitions a pending or active hunt to cancelled and stamps
	// its completion time. Hunts already in a terminal status are not
	// cancellable.
	Cancel(id string) (models.Hunt, error)

	// Backup copies the current hunt data to the specified destination path.
	Backup(destinationPath string) error

	// Restore replaces the current hunt data with data from the specified
	// source path. This operation may be destructive to current data.
	Restore(sourcePath string) error

	// Close releases any resources held by the store, such as file locks.
	Close() error
}
