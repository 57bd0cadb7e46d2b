package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "op and underlying error",
			err:  E(Op("cache.Get"), KindNotFound, stderrors.New("no such entry")),
			want: "cache.Get: no such entry",
		},
		{
			name: "op, context and underlying error",
			err:  E(Op("remote.Save"), KindNetwork, "file doc-1", stderrors.New("connection refused")),
			want: "remote.Save: file doc-1: connection refused",
		},
		{
			name: "context only becomes the error",
			err:  E(KindInvalid, "empty file id"),
			want: "empty file id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := E(Op("layout.Split"), KindCapacity, stderrors.New("panel limit reached"))

	if !Is(err, KindCapacity) {
		t.Error("Is should report KindCapacity")
	}
	if Is(err, KindNetwork) {
		t.Error("Is should not report KindNetwork")
	}
	if Is(stderrors.New("plain"), KindCapacity) {
		t.Error("Is should be false for plain errors")
	}
}

func TestIsWrapped(t *testing.T) {
	inner := E(Op("remote.Fetch"), KindNotFound, stderrors.New("404"))
	wrapped := fmt.Errorf("loading file: %w", inner)

	if !Is(wrapped, KindNotFound) {
		t.Error("Is should unwrap to find the structured error")
	}
	if GetKind(wrapped) != KindNotFound {
		t.Errorf("GetKind = %v, want KindNotFound", GetKind(wrapped))
	}
}

func TestGetKindUnknown(t *testing.T) {
	if got := GetKind(stderrors.New("plain")); got != KindUnknown {
		t.Errorf("GetKind(plain) = %v, want KindUnknown", got)
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindNotFound:    "not found",
		KindInvalid:     "invalid",
		KindIO:          "I/O error",
		KindNetwork:     "network error",
		KindConfig:      "configuration error",
		KindCapacity:    "capacity exceeded",
		KindPersistence: "persistence error",
		KindTimeout:     "timeout",
		KindUnknown:     "unknown error",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	inner := stderrors.New("disk full")
	err := E(Op("config.Save"), KindIO, inner)

	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the underlying error")
	}
}
