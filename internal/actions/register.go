package actions

import "github.com/vireodyne/protoctl/internal/registry"

// RegisterAll registers every action in the required action surface
// against reg. Called once at startup after the Dependencies struct's
// backends are constructed.
func RegisterAll(reg *registry.Registry) {
	registerKeyboard(reg)
	registerMouse(reg)
	registerWindow(reg)
	registerBrowser(reg)
	registerClipboard(reg)
	registerFile(reg)
	registerScreen(reg)
	registerTiming(reg)
	registerVision(reg)
	registerSystem(reg)
	registerEdit(reg)
	registerMacro(reg)
}
