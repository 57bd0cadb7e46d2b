package ui

import (
	"strings"
	"testing"
)

func TestFooterDefaultBindings(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)

	view := f.View()
	for _, want := range []string{"save", "split", "rename", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("footer missing %q binding", want)
		}
	}
}

func TestFooterSidebarContext(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)
	f.SetContext(true, false, 0)

	view := f.View()
	if !strings.Contains(view, "navigate") {
		t.Error("sidebar-focused footer should show navigation bindings")
	}
	if strings.Contains(view, "split") {
		t.Error("sidebar-focused footer should not show editor bindings")
	}
}

func TestFooterModalContext(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)
	f.SetContext(false, true, 0)

	view := f.View()
	if !strings.Contains(view, "confirm") || !strings.Contains(view, "cancel") {
		t.Error("modal footer should show confirm/cancel bindings")
	}
}

func TestFooterDirtyCount(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)
	f.SetContext(false, false, 3)

	if !strings.Contains(f.View(), "3 unsaved") {
		t.Error("footer should surface the unsaved file count")
	}
}
