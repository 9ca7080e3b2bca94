// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. It is suitable for an editing session,
// testing, or any scenario where node state does not need to be persisted.
package inmemorystore
