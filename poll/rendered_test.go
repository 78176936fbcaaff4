package poll

import (
	"testing"

	"github.com/dshills/stormpane/event"
)

func TestRenderedStartsIdle(t *testing.T) {
	r := NewRendered()

	ready, err := r.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if ready {
		t.Error("Poll() = true before any frame")
	}
}

func TestRenderedDeliversFrame(t *testing.T) {
	r := NewRendered()
	r.Notify(7)

	ready, _ := r.Poll()
	if !ready {
		t.Fatal("Poll() = false after Notify")
	}

	evs, err := r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("Read() returned %d events, want 1", len(evs))
	}
	fp, ok := evs[0].(*event.FramePresented)
	if !ok {
		t.Fatalf("event is %T, want *event.FramePresented", evs[0])
	}
	if fp.Frame() != 7 {
		t.Errorf("Frame() = %d, want 7", fp.Frame())
	}
}

func TestRenderedCoalescesToLatestFrame(t *testing.T) {
	r := NewRendered()
	r.Notify(1)
	r.Notify(2)
	r.Notify(3)

	evs, _ := r.Read()
	if len(evs) != 1 {
		t.Fatalf("Read() returned %d events, want 1", len(evs))
	}
	if got := evs[0].(*event.FramePresented).Frame(); got != 3 {
		t.Errorf("Frame() = %d, want latest frame 3", got)
	}

	ready, _ := r.Poll()
	if ready {
		t.Error("Poll() = true after delivery")
	}
}

func TestRenderedWakesLoop(t *testing.T) {
	r := NewRendered()
	w := &countWaker{}
	r.SetWaker(w)

	r.Notify(1)
	if w.count() == 0 {
		t.Error("Notify did not wake the loop")
	}
}
