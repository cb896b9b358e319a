// Package actions registers the concrete handler for every action name
// in the Action Registry's required surface, wiring each to the
// injected backend it drives.
package actions
