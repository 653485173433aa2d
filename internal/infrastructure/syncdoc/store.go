// Package syncdoc provides the shared remote document used to relay scan
// events between paired devices. The store holds one document per path and
// pushes change notifications to subscribers. A write overwrites the
// previous document - this is a mailbox, not a queue - so at most the
// most recent write is observable.
package syncdoc

import "context"

// Unsubscribe stops a subscription. It is guaranteed that no callback is
// invoked after Unsubscribe returns.
type Unsubscribe func()

// Store is a key/value document store with push change notification
type Store interface {
	// Write replaces the document at path and notifies subscribers
	Write(ctx context.Context, path string, doc []byte) error
	// Read returns the current document at path, or NotFound
	Read(ctx context.Context, path string) ([]byte, error)
	// Subscribe registers onChange for every subsequent write to path.
	// The callback receives the written document and runs on the store's
	// notification goroutine.
	Subscribe(ctx context.Context, path string, onChange func(doc []byte)) (Unsubscribe, error)
	// Delete removes the document at path. Deleting an absent document
	// is a no-op.
	Delete(ctx context.Context, path string) error
}
