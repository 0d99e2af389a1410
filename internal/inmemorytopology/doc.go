// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface: the registered nodes of a session and
// the producer-to-consumer links that drive cascading removal.
package inmemorytopology
