package store

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnchanged can be returned from an Update closure to abort the
	// update without writing. Update propagates it so callers can tell a
	// skipped write from a failed one.
	ErrUnchanged = errors.New("document unchanged")
)

// Store is the storage port every service depends on. Documents are JSON
// blobs addressed by a tenant id and a slash-separated path
// ("contacts/<id>", "actionQueue/<id>", "config/ownerCover", ...).
// Collections are append-only lists ("auditLog").
//
// Implementations must make Update an atomic read-modify-write per
// document: two concurrent updates of the same path must serialize, which
// is what makes action-queue approval race-tolerant.
type Store interface {
	// GetDoc unmarshals the document at path into out.
	// Returns ErrNotFound if it does not exist.
	GetDoc(uid, path string, out interface{}) error

	// SetDoc marshals doc and writes it at path, replacing any previous
	// version.
	SetDoc(uid, path string, doc interface{}) error

	// UpdateDoc runs fn under the document's write lock. fn receives the
	// raw stored JSON (nil if the document does not exist) and returns the
	// replacement value. Returning an error aborts the write and the error
	// is passed through.
	UpdateDoc(uid, path string, fn func(raw []byte) (interface{}, error)) error

	// ListDocs returns the raw JSON of every document whose path starts
	// with prefix, in path order.
	ListDocs(uid, prefix string) ([][]byte, error)

	// AppendDoc appends doc to the named collection.
	AppendDoc(uid, collection string, doc interface{}) error

	// ListCollection returns the raw JSON of every appended document, in
	// insertion order.
	ListCollection(uid, collection string) ([][]byte, error)

	Close() error
}
