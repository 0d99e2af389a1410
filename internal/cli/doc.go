// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates the commands and flags of the extractgrid binary into the
// application's internal configuration.
package cli
