package media

// DefaultPageSize is how many picker entries are revealed per step.
const DefaultPageSize = 60

// SelectionWindow reveals an already resolved list one page at a time. It never fetches.
type SelectionWindow struct {
	full     []StorageObject
	pageSize int
	revealed int
}

func NewSelectionWindow(full []StorageObject, pageSize int) *SelectionWindow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SelectionWindow{
		full:     full,
		pageSize: pageSize,
		revealed: min(pageSize, len(full)),
	}
}

// Reveal grows the visible prefix by one page, clamped to the total, and returns the new count.
func (w *SelectionWindow) Reveal() int {
	w.revealed = min(w.revealed+w.pageSize, len(w.full))
	return w.revealed
}

func (w *SelectionWindow) HasMore() bool {
	return w.revealed < len(w.full)
}

// Visible is full[0:revealed]. Appending to it cannot overwrite hidden entries.
func (w *SelectionWindow) Visible() []StorageObject {
	return w.full[:w.revealed:w.revealed]
}

func (w *SelectionWindow) Revealed() int { return w.revealed }

func (w *SelectionWindow) Total() int { return len(w.full) }

func (w *SelectionWindow) PageSize() int { return w.pageSize }
