package backend

import "context"

type keyboardShortcutter interface {
	Shortcut(ctx context.Context, keys []string) error
	PressKey(ctx context.Context, key string) error
	Type(ctx context.Context, text string, intervalMs int) error
}

// Edit backs select_all/undo/redo/find_replace/delete_line/
// duplicate_line by dispatching the shortcut a focused desktop
// application conventionally binds to each operation. There is no
// generic "edit the focused document" OS primitive, so this is
// necessarily keyboard-driven rather than backed by a dedicated
// library.
type Edit struct {
	kbd keyboardShortcutter
}

// NewEdit builds an Edit backend driven by kbd.
func NewEdit(kbd keyboardShortcutter) *Edit {
	return &Edit{kbd: kbd}
}

func (e *Edit) SelectAll(ctx context.Context) error {
	return e.kbd.Shortcut(ctx, []string{"ctrl", "a"})
}

func (e *Edit) Undo(ctx context.Context) error {
	return e.kbd.Shortcut(ctx, []string{"ctrl", "z"})
}

func (e *Edit) Redo(ctx context.Context) error {
	return e.kbd.Shortcut(ctx, []string{"ctrl", "y"})
}

func (e *Edit) FindReplace(ctx context.Context, find, replace string) error {
	if err := e.kbd.Shortcut(ctx, []string{"ctrl", "h"}); err != nil {
		return err
	}
	if err := e.kbd.Type(ctx, find, 0); err != nil {
		return err
	}
	if err := e.kbd.PressKey(ctx, "tab"); err != nil {
		return err
	}
	return e.kbd.Type(ctx, replace, 0)
}

func (e *Edit) DeleteLine(ctx context.Context) error {
	return e.kbd.Shortcut(ctx, []string{"ctrl", "shift", "k"})
}

func (e *Edit) DuplicateLine(ctx context.Context) error {
	return e.kbd.Shortcut(ctx, []string{"ctrl", "d"})
}
