package events

import "testing"

func TestSubscribeAndEmit(t *testing.T) {
	bus := NewBus()

	var got []any
	bus.Subscribe(FileSelected, func(payload any) {
		got = append(got, payload)
	})

	bus.Emit(FileSelected, "doc-1")
	bus.Emit(FileSelected, "doc-2")

	if len(got) != 2 || got[0] != "doc-1" || got[1] != "doc-2" {
		t.Errorf("got = %v, want [doc-1 doc-2]", got)
	}
}

func TestEmitOnlyReachesMatchingSignal(t *testing.T) {
	bus := NewBus()

	saveAll := 0
	revalidate := 0
	bus.Subscribe(SaveAll, func(any) { saveAll++ })
	bus.Subscribe(Revalidate, func(any) { revalidate++ })

	bus.Emit(SaveAll, nil)

	if saveAll != 1 {
		t.Errorf("saveAll handler ran %d times, want 1", saveAll)
	}
	if revalidate != 0 {
		t.Errorf("revalidate handler ran %d times, want 0", revalidate)
	}
}

func TestMultipleHandlersFanOut(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(SaveAll, func(any) { count++ })
	bus.Subscribe(SaveAll, func(any) { count++ })

	bus.Emit(SaveAll, nil)

	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	unsub := bus.Subscribe(Revalidate, func(any) { count++ })

	bus.Emit(Revalidate, nil)
	unsub()
	unsub() // second call is harmless
	bus.Emit(Revalidate, nil)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestEmitWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	// Should not panic
	bus.Emit(SaveAll, nil)
}
