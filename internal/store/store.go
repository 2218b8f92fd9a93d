// Package store is the client side of the external record store. The
// storefront never owns persistence; it talks to one collection per record
// kind through the Records interface. A missing record is a nil result,
// not an error - errors mean the store operation itself failed.
package store

import "context"

// Fields selects which record fields a read should return. Empty means all.
type Fields []string

// Records is the record-store contract for a single record kind.
type Records[T any] interface {
	// List returns every record, in store order.
	List(ctx context.Context, fields Fields) ([]T, error)
	// Get returns the record by id, or nil if no such record exists.
	Get(ctx context.Context, id string, fields Fields) (*T, error)
	// Create inserts the record, assigning an id when it has none, and
	// returns the stored copy.
	Create(ctx context.Context, rec T) (*T, error)
	// Update applies a partial update and returns the updated record,
	// or nil if the id does not exist.
	Update(ctx context.Context, id string, updates map[string]any) (*T, error)
	// Delete removes the record. The bool reports whether a record was
	// actually deleted; a missing id is (false, nil).
	Delete(ctx context.Context, id string) (bool, error)
}

// Identity tells a Records implementation how to read and assign a
// record's id without reflection. Apply implements partial updates for
// stores without native update semantics (the in-memory one); keys match
// the bson field names used by the Mongo implementation.
type Identity[T any] struct {
	Get   func(T) string
	Set   func(T, string) T
	Apply func(T, map[string]any) T
}
