package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/vireodyne/protoctl/internal/app"
)

// File backs the file action category. Open/Save delegate to whatever
// application currently has focus via keyboard shortcuts (there is no
// generic "open this path in the focused app" OS primitive), while
// CreateFolder/Delete act directly on the filesystem.
type File struct {
	log *app.Logger
	kbd interface {
		Shortcut(ctx context.Context, keys []string) error
		Type(ctx context.Context, text string, intervalMs int) error
		PressKey(ctx context.Context, key string) error
	}
}

// NewFile builds a File backend. kbd drives the open/save-as dialog
// interactions a desktop application exposes.
func NewFile(log *app.Logger, kbd interface {
	Shortcut(ctx context.Context, keys []string) error
	Type(ctx context.Context, text string, intervalMs int) error
	PressKey(ctx context.Context, key string) error
}) *File {
	return &File{log: log.WithField("backend", "file"), kbd: kbd}
}

func (f *File) Open(ctx context.Context, path string) error {
	if err := f.kbd.Shortcut(ctx, []string{"ctrl", "o"}); err != nil {
		return err
	}
	if err := f.kbd.Type(ctx, path, 0); err != nil {
		return err
	}
	return f.kbd.PressKey(ctx, "enter")
}

func (f *File) Save(ctx context.Context) error {
	return f.kbd.Shortcut(ctx, []string{"ctrl", "s"})
}

func (f *File) SaveAs(ctx context.Context, path string) error {
	if err := f.kbd.Shortcut(ctx, []string{"ctrl", "shift", "s"}); err != nil {
		return err
	}
	if err := f.kbd.Type(ctx, path, 0); err != nil {
		return err
	}
	return f.kbd.PressKey(ctx, "enter")
}

func (f *File) OpenDialog(ctx context.Context) (string, error) {
	return "", fmt.Errorf("backend: open_dialog has no headless result to report")
}

func (f *File) CreateFolder(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("backend: create_folder %q: %w", path, err)
	}
	return nil
}

func (f *File) Delete(ctx context.Context, path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("backend: delete %q: %w", path, err)
	}
	return nil
}
