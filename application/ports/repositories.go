package ports

import (
	"context"

	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// KVStore is the key-value storage the entry repository sits on. Values are
// opaque bytes; keys are namespaced by the caller.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Scan returns every key/value whose key starts with prefix, ordered by
	// key
	Scan(ctx context.Context, prefix string) (map[string][]byte, []string, error)

	Close() error
}

// EntryRepository defines the interface for entry persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type EntryRepository interface {
	// Save persists an entry (create or update)
	Save(ctx context.Context, entry *entities.Entry) error

	// GetByID retrieves an entry by its ID
	GetByID(ctx context.Context, id valueobjects.EntryID) (*entities.Entry, error)

	// List returns every entry, archived included, oldest first
	List(ctx context.Context) ([]*entities.Entry, error)

	// Delete removes an entry permanently
	Delete(ctx context.Context, id valueobjects.EntryID) error
}

// EntryLister is the read side the visualization consumes. It never fails:
// storage problems are logged by the implementation and surface as an empty
// list.
type EntryLister interface {
	ListActiveEntries(ctx context.Context) []*entities.Entry
}

// EditRequester asks the host to open an entry for editing. Fire-and-forget.
type EditRequester interface {
	RequestEditMode(id string)
}

// EditRequesterFunc adapts a function to EditRequester
type EditRequesterFunc func(id string)

// RequestEditMode implements EditRequester
func (f EditRequesterFunc) RequestEditMode(id string) {
	f(id)
}
