// Package config defines the format-agnostic model of a grid file, along with
// the core interfaces (Loader, Converter) for loading and interpreting it.
//
// The `config.Model` is the single source of truth the app builds its session
// from. Concrete implementations of the interfaces, such as for HCL, are
// provided in separate packages.
package config
