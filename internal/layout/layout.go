// Package layout manages the split-panel arrangement of the editor area:
// how many panels are visible, which open file each renders, and their
// relative sizes along one axis. Sizes are shares of a fixed total, so
// the layout is resolution-independent.
package layout

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/atelier-studio/atelier/internal/errors"
	"github.com/atelier-studio/atelier/internal/logger"
)

// Orientation is the axis along which panels are arranged.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

const (
	// SizeTotal is the fixed sum of sibling panel sizes.
	SizeTotal = 100.0

	// MinPanelSize keeps a panel from being resized into invisibility.
	MinPanelSize = 10.0

	// MaxPanels caps how many panels a layout group can hold.
	MaxPanels = 3
)

// Panel is one visible editing surface, bound to exactly one open file.
type Panel struct {
	ID     string
	FileID string
	Size   float64
}

// Engine owns the ordered panel list and its sizing invariant: after any
// split/resize/remove, sibling sizes sum to SizeTotal.
type Engine struct {
	mu          sync.Mutex
	panels      []Panel
	orientation Orientation
}

// NewEngine creates an empty horizontal layout.
func NewEngine() *Engine {
	return &Engine{orientation: Horizontal}
}

// Open ensures at least one panel exists. The first panel takes the full
// size and is bound to fileID; if panels already exist this is a no-op.
func (e *Engine) Open(fileID string) Panel {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.panels) > 0 {
		return e.panels[0]
	}
	p := Panel{ID: uuid.New().String(), FileID: fileID, Size: SizeTotal}
	e.panels = []Panel{p}
	return p
}

// Split creates a new panel next to the one bound to fromFileID, bound to
// the same file. The source panel's size is halved and the new panel
// takes the other half, keeping the total constant. Returns a
// KindCapacity error when the panel cap is reached, and a KindNotFound
// error when no panel renders fromFileID.
func (e *Engine) Split(fromFileID string) (Panel, error) {
	const op = errors.Op("layout.Split")

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.panels) >= MaxPanels {
		return Panel{}, errors.E(op, errors.KindCapacity, "panel limit reached")
	}

	idx := -1
	for i := range e.panels {
		if e.panels[i].FileID == fromFileID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Panel{}, errors.E(op, errors.KindNotFound, "no panel for file "+fromFileID)
	}

	half := e.panels[idx].Size / 2
	e.panels[idx].Size = half
	p := Panel{ID: uuid.New().String(), FileID: fromFileID, Size: half}

	e.panels = append(e.panels, Panel{})
	copy(e.panels[idx+2:], e.panels[idx+1:])
	e.panels[idx+1] = p

	logger.Debug("Layout: Split panel for file=%s, now %d panels", fromFileID, len(e.panels))
	return p, nil
}

// Resize sets one panel's size; siblings absorb the opposite delta in
// proportion to their current shares, so the total stays invariant.
// Unknown ids are a silent no-op.
func (e *Engine) Resize(id string, newSize float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.panels {
		if e.panels[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || len(e.panels) < 2 {
		return
	}

	// Clamp so every sibling keeps at least its minimum share
	maxSize := SizeTotal - MinPanelSize*float64(len(e.panels)-1)
	if newSize < MinPanelSize {
		newSize = MinPanelSize
	}
	if newSize > maxSize {
		newSize = maxSize
	}

	siblingTotal := 0.0
	for i := range e.panels {
		if i != idx {
			siblingTotal += e.panels[i].Size
		}
	}

	remaining := SizeTotal - newSize
	for i := range e.panels {
		if i == idx {
			e.panels[i].Size = newSize
		} else if siblingTotal > 0 {
			e.panels[i].Size = e.panels[i].Size / siblingTotal * remaining
		} else {
			e.panels[i].Size = remaining / float64(len(e.panels)-1)
		}
	}
}

// Remove deletes a panel and hands its size to the remaining siblings in
// proportion to their existing shares, preserving relative weight.
// Unknown ids are a silent no-op.
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.panels {
		if e.panels[i].ID == id {
			e.removeAt(i)
			return
		}
	}
}

// RemoveForFile deletes every panel bound to fileID. Used when the file
// closes: a panel must never reference a file that is no longer open.
func (e *Engine) RemoveForFile(fileID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := 0
	for i := len(e.panels) - 1; i >= 0; i-- {
		if e.panels[i].FileID == fileID {
			e.removeAt(i)
			removed++
		}
	}
	return removed
}

// Rebind points an existing panel at a different file, keeping its size
// and position. Unknown panel ids are a silent no-op.
func (e *Engine) Rebind(id, fileID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.panels {
		if e.panels[i].ID == id {
			e.panels[i].FileID = fileID
			return
		}
	}
}

// Clear removes every panel. Used on project switch, where no open file
// survives and the next open starts a fresh layout.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panels = nil
}

// removeAt removes the panel at index i and redistributes its size.
// Must be called with the lock held.
func (e *Engine) removeAt(i int) {
	freed := e.panels[i].Size
	e.panels = append(e.panels[:i], e.panels[i+1:]...)

	if len(e.panels) == 0 || freed <= 0 {
		return
	}

	remaining := SizeTotal - freed
	if remaining <= 0 {
		// Degenerate shares; fall back to an even split
		for j := range e.panels {
			e.panels[j].Size = SizeTotal / float64(len(e.panels))
		}
		return
	}
	for j := range e.panels {
		e.panels[j].Size = e.panels[j].Size / remaining * SizeTotal
	}
}

// SetOrientation swaps the layout axis. Which files are open is
// unaffected.
func (e *Engine) SetOrientation(o Orientation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o == Horizontal || o == Vertical {
		e.orientation = o
	}
}

// Orientation returns the current layout axis.
func (e *Engine) Orientation() Orientation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orientation
}

// Panels returns a copy of the ordered panel list.
func (e *Engine) Panels() []Panel {
	e.mu.Lock()
	defer e.mu.Unlock()

	panels := make([]Panel, len(e.panels))
	copy(panels, e.panels)
	return panels
}

// Sizes returns the ordered panel sizes.
func (e *Engine) Sizes() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	sizes := make([]float64, len(e.panels))
	for i := range e.panels {
		sizes[i] = e.panels[i].Size
	}
	return sizes
}

// SetSizes restores persisted sizes. Ignored unless the count matches the
// current panel count; restored sizes are normalized to the fixed total.
func (e *Engine) SetSizes(sizes []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(sizes) != len(e.panels) || len(sizes) == 0 {
		return
	}

	sum := 0.0
	for _, s := range sizes {
		if s <= 0 {
			return
		}
		sum += s
	}
	for i := range e.panels {
		e.panels[i].Size = sizes[i] / sum * SizeTotal
	}
}

// PairingKey identifies this panel arrangement for size persistence:
// the project plus the ordered files on display. Different pairings have
// different natural proportions, so sizes are remembered per pairing
// rather than globally.
func (e *Engine) PairingKey(projectID string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	parts := make([]string, 0, len(e.panels)+1)
	parts = append(parts, projectID)
	for i := range e.panels {
		parts = append(parts, e.panels[i].FileID)
	}
	return strings.Join(parts, "|")
}
