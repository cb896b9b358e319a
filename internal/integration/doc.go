// Package integration hosts external process integration for the
// protocol engine.
//
// # Process Supervisor
//
// The process subpackage manages the child processes the window
// backend launches and closes for open_app/close_app. It provides:
//
//   - Lifecycle management with proper cleanup
//   - Signal forwarding to child processes
//   - Graceful shutdown with configurable timeout
//   - Resource tracking and limits
//
// # Thread Safety
//
// The Supervisor and Process types are safe for concurrent use.
package integration
