package types

// Store persists an entire address book as one unit. Implementations write
// every record on each Save; there is no partial update.
type Store interface {
	// Load returns every persisted record in saved order.
	// Returns ErrNoPriorData if nothing has been saved yet.
	Load() ([]*Record, error)

	// Save replaces the persisted content with records, in order.
	Save(records []*Record) error

	// Path returns the file the store reads and writes.
	Path() string

	// Close releases resources. Idempotent.
	Close() error
}
