package registry

import (
	"context"

	"github.com/vireodyne/protoctl/internal/execctx"
)

// Bitmap is an immutable captured image, returned by ScreenCapture, with
// known dimensions.
type Bitmap struct {
	Width  int
	Height int
	Format string // "png" or "jpeg"
	Data   []byte
}

// Region bounds a rectangular area of the screen.
type Region struct {
	X, Y, Width, Height int
}

// VerifyRequest is the input to a VisualVerifier call, mirroring the
// verify_screen action contract.
type VerifyRequest struct {
	Context             string
	Expected            string
	ConfidenceThreshold float64
	Region              *Region
}

// KeyboardController synthesizes key presses and text entry.
type KeyboardController interface {
	PressKey(ctx context.Context, key string) error
	Shortcut(ctx context.Context, keys []string) error
	Type(ctx context.Context, text string, intervalMs int) error
	HoldKey(ctx context.Context, key string) error
	ReleaseKey(ctx context.Context, key string) error
}

// MouseController synthesizes mouse movement and clicks, including the
// smooth curved-trajectory movement mode.
type MouseController interface {
	Move(ctx context.Context, x, y int, smooth bool, speed float64) error
	Click(ctx context.Context, button string, clicks int) error
	DoubleClick(ctx context.Context, button string) error
	RightClick(ctx context.Context) error
	Drag(ctx context.Context, toX, toY int, smooth bool, speed float64) error
	Scroll(ctx context.Context, direction string, amount int) error
	Position(ctx context.Context) (x, y int, err error)
}

// ScreenCapture captures bitmaps of the whole screen, a region, or the
// active window.
type ScreenCapture interface {
	CaptureScreen(ctx context.Context) (Bitmap, error)
	CaptureRegion(ctx context.Context, x, y, w, h int) (Bitmap, error)
	CaptureWindow(ctx context.Context) (Bitmap, error)
}

// ClipboardController backs the clipboard action category.
type ClipboardController interface {
	Copy(ctx context.Context) error
	Paste(ctx context.Context) error
	Cut(ctx context.Context) error
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, text string) error
}

// WindowController backs window management actions, including
// open_app/close_app.
type WindowController interface {
	OpenApp(ctx context.Context, appName string) error
	CloseApp(ctx context.Context) error
	SwitchWindow(ctx context.Context) error
	Minimize(ctx context.Context) error
	Maximize(ctx context.Context) error
	Restore(ctx context.Context) error
	ActiveWindow(ctx context.Context) (string, error)
}

// BrowserController backs the browser action category.
type BrowserController interface {
	OpenURL(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Refresh(ctx context.Context) error
	NewTab(ctx context.Context) error
	CloseTab(ctx context.Context) error
	SwitchTab(ctx context.Context, index int) error
	AddressBar(ctx context.Context, url string) error
	Bookmark(ctx context.Context) error
	Find(ctx context.Context, text string) error
}

// FileController backs the file action category.
type FileController interface {
	Open(ctx context.Context, path string) error
	Save(ctx context.Context) error
	SaveAs(ctx context.Context, path string) error
	OpenDialog(ctx context.Context) (string, error)
	CreateFolder(ctx context.Context, path string) error
	Delete(ctx context.Context, path string) error
}

// SystemController backs lock/sleep/shutdown/restart/volume actions.
type SystemController interface {
	Lock(ctx context.Context) error
	Sleep(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Restart(ctx context.Context) error
	VolumeUp(ctx context.Context) error
	VolumeDown(ctx context.Context) error
	VolumeMute(ctx context.Context) error
}

// EditController backs select_all/undo/redo/find_replace/delete_line/
// duplicate_line, applied to whatever application currently has focus.
type EditController interface {
	SelectAll(ctx context.Context) error
	Undo(ctx context.Context) error
	Redo(ctx context.Context) error
	FindReplace(ctx context.Context, find, replace string) error
	DeleteLine(ctx context.Context) error
	DuplicateLine(ctx context.Context) error
}

// VisualVerifier is the Visual Verifier (C6), injected into the registry
// so verify_screen and related vision actions can consult it.
type VisualVerifier interface {
	Verify(ctx context.Context, req VerifyRequest) (execctx.VerificationResult, error)
}

// MacroRunner lets the "macro" action re-enter the executor's macro
// handling without the registry importing the executor package.
type MacroRunner interface {
	RunMacro(ctx context.Context, ectx *execctx.ExecutionContext, name string, vars map[string]string) error
}

// Dependencies bundles the backends a handler may consult at call time,
// set via Registry.InjectDependencies.
type Dependencies struct {
	Keyboard  KeyboardController
	Mouse     MouseController
	Screen    ScreenCapture
	Clipboard ClipboardController
	Window    WindowController
	Browser   BrowserController
	File      FileController
	System    SystemController
	Edit      EditController
	Verifier  VisualVerifier
	Macro     MacroRunner
}
