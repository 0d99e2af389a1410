/*
Package nodeid provides a structured, type-safe representation for node
identifiers within a session, based on the canonical format `group.name`.

Output ports of a node carry an index: `sources.wavelet[1]` addresses the
second output port of the `wavelet` node registered in the `sources` group.

This package enforces the identifier schema and centralizes all
formatting and parsing logic.
*/
package nodeid
