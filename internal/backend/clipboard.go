package backend

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/vireodyne/protoctl/internal/app"
)

// Clipboard backs the clipboard action category with the system
// clipboard, via atotto/clipboard. Copy/Cut/Paste are expressed as
// keyboard shortcuts dispatched through a KeyboardController, since the
// clipboard library itself only reads/writes the clipboard buffer — it
// cannot select text in whatever application currently has focus.
type Clipboard struct {
	log *app.Logger
	kbd interface {
		Shortcut(ctx context.Context, keys []string) error
	}
}

// NewClipboard builds a Clipboard backend. kbd is used to dispatch the
// copy/cut/paste shortcuts to the focused application.
func NewClipboard(log *app.Logger, kbd interface {
	Shortcut(ctx context.Context, keys []string) error
}) *Clipboard {
	return &Clipboard{log: log.WithField("backend", "clipboard"), kbd: kbd}
}

func (c *Clipboard) Copy(ctx context.Context) error {
	return c.kbd.Shortcut(ctx, []string{"ctrl", "c"})
}

func (c *Clipboard) Paste(ctx context.Context) error {
	return c.kbd.Shortcut(ctx, []string{"ctrl", "v"})
}

func (c *Clipboard) Cut(ctx context.Context) error {
	return c.kbd.Shortcut(ctx, []string{"ctrl", "x"})
}

func (c *Clipboard) Get(ctx context.Context) (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("backend: read clipboard: %w", err)
	}
	return text, nil
}

func (c *Clipboard) Set(ctx context.Context, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("backend: write clipboard: %w", err)
	}
	return nil
}
