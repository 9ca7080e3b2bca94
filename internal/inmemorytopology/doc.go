// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. It is designed for scenarios where the
// model fits comfortably in memory and does not require persistent storage.
package inmemorytopology
