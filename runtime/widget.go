package runtime

// Context carries the bounds a widget is drawn into and dispatched
// against.
type Context struct {
	Width  int
	Height int
}

// Surface is the drawn output of a widget tree, one string per row.
// Cell-level diffing and painting belong to the renderer, not this
// package.
type Surface struct {
	Lines []string
}

// Widget is the contract between the event core and the widget tree.
type Widget interface {
	// Draw renders the widget into the given bounds.
	Draw(ctx Context) Surface
	// HandleEvent processes one message and returns commands for the
	// loop. A non-nil error stops the loop.
	HandleEvent(ctx Context, msg Message) ([]Command, error)
}

// Renderer paints a surface to the terminal. Implementations live
// outside this package.
type Renderer interface {
	Render(Surface) error
}
