// Package app contains the core application logic. It loads a grid, builds the
// extraction pipeline of every local rank, and drives it step by step,
// decoupled from any specific entrypoint like a CLI or server.
package app
