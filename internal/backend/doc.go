// Package backend implements the concrete Screen I/O & Input Backends
// (C2): the OS-facing controllers the Action Registry injects so
// handlers never talk to the operating system directly.
//
// No third-party library synthesizes OS-level input events, so this
// package shells out to the platform's native automation tool —
// xdotool on Linux, osascript on macOS, PowerShell on Windows — the
// same external-process shape the process supervisor uses elsewhere
// in this module. Clipboard and browser control are the exceptions:
// they use the atotto/clipboard and playwright-go libraries instead of
// a shelled-out tool.
package backend
