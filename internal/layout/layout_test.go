package layout

import (
	"math"
	"testing"

	"github.com/atelier-studio/atelier/internal/errors"
)

const tolerance = 1e-6

func assertSizeInvariant(t *testing.T, e *Engine) {
	t.Helper()
	sizes := e.Sizes()
	if len(sizes) == 0 {
		return
	}
	sum := 0.0
	for _, s := range sizes {
		sum += s
	}
	if math.Abs(sum-SizeTotal) > tolerance {
		t.Errorf("panel sizes sum to %.6f, want %.0f (sizes: %v)", sum, SizeTotal, sizes)
	}
}

func TestOpenCreatesFullSizePanel(t *testing.T) {
	e := NewEngine()

	p := e.Open("doc-1")
	if p.FileID != "doc-1" {
		t.Errorf("FileID = %q, want doc-1", p.FileID)
	}
	if p.Size != SizeTotal {
		t.Errorf("Size = %v, want %v", p.Size, SizeTotal)
	}

	// Second Open is a no-op returning the existing panel
	again := e.Open("doc-2")
	if again.ID != p.ID {
		t.Error("Open with existing panels should not create another")
	}
	if len(e.Panels()) != 1 {
		t.Errorf("panel count = %d, want 1", len(e.Panels()))
	}
}

func TestSplitHalvesSource(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")

	p, err := e.Split("doc-1")
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if p.FileID != "doc-1" {
		t.Errorf("new panel FileID = %q, want doc-1", p.FileID)
	}

	sizes := e.Sizes()
	if len(sizes) != 2 || sizes[0] != 50 || sizes[1] != 50 {
		t.Errorf("sizes = %v, want [50 50]", sizes)
	}
	assertSizeInvariant(t, e)
}

func TestSplitCapacity(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	if _, err := e.Split("doc-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Split("doc-1"); err != nil {
		t.Fatal(err)
	}

	_, err := e.Split("doc-1")
	if err == nil {
		t.Fatal("fourth panel should be rejected")
	}
	if !errors.Is(err, errors.KindCapacity) {
		t.Errorf("err kind = %v, want KindCapacity", errors.GetKind(err))
	}
	if len(e.Panels()) != MaxPanels {
		t.Errorf("panel count = %d, want %d", len(e.Panels()), MaxPanels)
	}
}

func TestSplitUnknownFile(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")

	_, err := e.Split("absent")
	if !errors.Is(err, errors.KindNotFound) {
		t.Errorf("err = %v, want KindNotFound", err)
	}
}

func TestResizeSiblingsAbsorbDelta(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")

	panels := e.Panels()
	e.Resize(panels[0].ID, 70)

	sizes := e.Sizes()
	if math.Abs(sizes[0]-70) > tolerance || math.Abs(sizes[1]-30) > tolerance {
		t.Errorf("sizes = %v, want [70 30]", sizes)
	}
	assertSizeInvariant(t, e)
}

func TestResizeProportionalAcrossThree(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1") // 50/50
	panels := e.Panels()
	e.Split("doc-1") // split again

	// Grow the first panel; the other two shrink proportionally
	e.Resize(panels[0].ID, 60)
	assertSizeInvariant(t, e)

	sizes := e.Sizes()
	if math.Abs(sizes[0]-60) > tolerance {
		t.Errorf("resized panel = %v, want 60", sizes[0])
	}
}

func TestResizeClamped(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")
	panels := e.Panels()

	e.Resize(panels[0].ID, 1)
	sizes := e.Sizes()
	if sizes[0] != MinPanelSize {
		t.Errorf("size = %v, want clamped to %v", sizes[0], MinPanelSize)
	}
	assertSizeInvariant(t, e)

	e.Resize(panels[0].ID, 99)
	sizes = e.Sizes()
	if sizes[1] != MinPanelSize {
		t.Errorf("sibling = %v, want %v", sizes[1], MinPanelSize)
	}
	assertSizeInvariant(t, e)
}

func TestResizeUnknownIsNoOp(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")

	before := e.Sizes()
	e.Resize("no-such-panel", 80)
	after := e.Sizes()

	for i := range before {
		if before[i] != after[i] {
			t.Errorf("sizes changed: %v -> %v", before, after)
		}
	}
}

func TestRemoveRedistributesProportionally(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")
	panels := e.Panels()

	// Skew to 60/40, then split the 60 into 30/30 -> [30 30 40]
	e.Resize(panels[0].ID, 60)
	e.Split("doc-1")

	// Remove the last panel; 30:40 weights should be preserved
	all := e.Panels()
	e.Remove(all[1].ID)
	assertSizeInvariant(t, e)

	sizes := e.Sizes()
	if len(sizes) != 2 {
		t.Fatalf("panel count = %d, want 2", len(sizes))
	}
	ratio := sizes[0] / sizes[1]
	if math.Abs(ratio-30.0/40.0) > 0.01 {
		t.Errorf("ratio = %v, want %v", ratio, 30.0/40.0)
	}
}

func TestRemoveLastPanel(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	p := e.Panels()[0]

	e.Remove(p.ID)
	if len(e.Panels()) != 0 {
		t.Errorf("panel count = %d, want 0", len(e.Panels()))
	}
	e.Remove(p.ID) // second remove is a no-op
}

func TestRemoveForFile(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")

	removed := e.RemoveForFile("doc-1")
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(e.Panels()) != 0 {
		t.Errorf("panel count = %d, want 0", len(e.Panels()))
	}
}

func TestRebindKeepsSizeAndPosition(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")
	panels := e.Panels()

	e.Rebind(panels[0].ID, "doc-2")

	got := e.Panels()
	if got[0].FileID != "doc-2" {
		t.Errorf("FileID = %q, want doc-2", got[0].FileID)
	}
	if got[0].ID != panels[0].ID || got[0].Size != panels[0].Size {
		t.Error("rebinding must not change the panel's id or size")
	}

	e.Rebind("ghost", "doc-3") // unknown panel is a no-op
	if len(e.Panels()) != 2 {
		t.Errorf("panel count = %d, want 2", len(e.Panels()))
	}
}

func TestClearDropsAllPanels(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")

	e.Clear()
	if len(e.Panels()) != 0 {
		t.Errorf("panel count = %d, want 0", len(e.Panels()))
	}

	// A fresh open after Clear starts a new full-size layout
	p := e.Open("doc-2")
	if p.Size != SizeTotal {
		t.Errorf("size = %v, want %v", p.Size, SizeTotal)
	}
}

func TestSetOrientation(t *testing.T) {
	e := NewEngine()
	if e.Orientation() != Horizontal {
		t.Errorf("default orientation = %v, want horizontal", e.Orientation())
	}

	e.SetOrientation(Vertical)
	if e.Orientation() != Vertical {
		t.Errorf("orientation = %v, want vertical", e.Orientation())
	}

	e.SetOrientation(Orientation("diagonal"))
	if e.Orientation() != Vertical {
		t.Error("invalid orientation should be ignored")
	}
}

func TestSetSizes(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")

	e.SetSizes([]float64{70, 30})
	sizes := e.Sizes()
	if math.Abs(sizes[0]-70) > tolerance || math.Abs(sizes[1]-30) > tolerance {
		t.Errorf("sizes = %v, want [70 30]", sizes)
	}

	// Mismatched count is ignored
	e.SetSizes([]float64{100})
	if got := e.Sizes(); math.Abs(got[0]-70) > tolerance {
		t.Errorf("sizes = %v, want unchanged [70 30]", got)
	}

	// Unnormalized input is scaled to the total
	e.SetSizes([]float64{1, 1})
	assertSizeInvariant(t, e)
}

func TestPairingKey(t *testing.T) {
	e := NewEngine()
	e.Open("doc-1")
	e.Split("doc-1")

	key := e.PairingKey("proj-9")
	if key != "proj-9|doc-1|doc-1" {
		t.Errorf("key = %q", key)
	}
}

func TestSizeInvariantUnderMixedOperations(t *testing.T) {
	e := NewEngine()
	e.Open("a")
	e.Split("a")
	panels := e.Panels()
	e.Resize(panels[1].ID, 65)
	e.Split("a")
	assertSizeInvariant(t, e)

	all := e.Panels()
	e.Remove(all[0].ID)
	assertSizeInvariant(t, e)

	left := e.Panels()
	e.Resize(left[0].ID, 20)
	assertSizeInvariant(t, e)
}
