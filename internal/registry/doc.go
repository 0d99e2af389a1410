// Package registry provides the central "glue" for the module system.
//
// The Registry stores the node types a session can instantiate, keyed by
// group and type name: the "Extractor" generator schema, every writer type in
// "extract_writers", every trigger type in "extract_triggers". Each entry
// carries the display label, the default attribute values applied when a node
// is pre-initialized, and the Go constructor of the node's capability.
//
// During application startup, modules populate the registry and it is then
// validated, so that input structs which cannot be decoded from configuration
// are reported before any session is built.
package registry
