package notification

import (
	"errors"
	"testing"
)

// mockNotification records calls to the notification function
type mockNotification struct {
	calls []struct {
		title   string
		message string
	}
	err error
}

func (m *mockNotification) notify(title, message string, _ any) error {
	m.calls = append(m.calls, struct {
		title   string
		message string
	}{title, message})
	return m.err
}

func TestSend(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		message     string
		mockErr     error
		expectError bool
	}{
		{name: "successful notification", title: "Test Title", message: "Test Message"},
		{name: "notification error", title: "Test Title", message: "Test Message",
			mockErr: errors.New("notification failed"), expectError: true},
		{name: "empty title", message: "Message with empty title"},
		{name: "unicode content", title: "通知", message: "🎉 Notification with emoji"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotification{err: tt.mockErr}
			SetNotifier(mock.notify)
			defer ResetNotifier()

			err := Send(tt.title, tt.message)

			if tt.expectError && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if len(mock.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(mock.calls))
			}
			call := mock.calls[0]
			if call.title != tt.title || call.message != tt.message {
				t.Errorf("call = %+v, want title=%q message=%q", call, tt.title, tt.message)
			}
		})
	}
}

func TestSaveFailed(t *testing.T) {
	mock := &mockNotification{}
	SetNotifier(mock.notify)
	defer ResetNotifier()

	if err := SaveFailed("Design Notes"); err != nil {
		t.Fatalf("SaveFailed: %v", err)
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.calls))
	}
	call := mock.calls[0]
	if call.title != "Atelier" {
		t.Errorf("title = %q, want Atelier", call.title)
	}
	if call.message != "Could not save \"Design Notes\". Your edits are kept locally." {
		t.Errorf("message = %q", call.message)
	}
}
