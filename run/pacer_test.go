package run

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
)

var pacerEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func redrawCount(evs []tcell.Event) int {
	n := 0
	for _, ev := range evs {
		if _, ok := ev.(*event.RedrawRequest); ok {
			n++
		}
	}
	return n
}

func blinkPhases(evs []tcell.Event) []bool {
	var phases []bool
	for _, ev := range evs {
		if bt, ok := ev.(*event.BlinkToggle); ok {
			phases = append(phases, bt.Phase())
		}
	}
	return phases
}

func TestPacerNothingDueEarly(t *testing.T) {
	p := newPacer(500 * time.Millisecond)
	p.start(pacerEpoch)

	if evs := p.collect(pacerEpoch.Add(time.Millisecond)); len(evs) != 0 {
		t.Errorf("collect before any deadline = %d events, want 0", len(evs))
	}
}

func TestPacerDeadline(t *testing.T) {
	p := newPacer(500 * time.Millisecond)
	p.start(pacerEpoch)

	if got, want := p.deadline(pacerEpoch), pacerEpoch.Add(frameInterval); !got.Equal(want) {
		t.Errorf("deadline = %v, want redraw cadence %v", got, want)
	}

	// A blink interval shorter than the frame cadence wins.
	p = newPacer(5 * time.Millisecond)
	p.start(pacerEpoch)
	if got, want := p.deadline(pacerEpoch), pacerEpoch.Add(5*time.Millisecond); !got.Equal(want) {
		t.Errorf("deadline = %v, want blink deadline %v", got, want)
	}
}

func TestPacerRedrawOnRequest(t *testing.T) {
	p := newPacer(500 * time.Millisecond)
	p.start(pacerEpoch)

	p.requestRedraw()
	now := pacerEpoch.Add(time.Millisecond)
	if got := redrawCount(p.collect(now)); got != 1 {
		t.Fatalf("collect after request = %d redraws, want 1", got)
	}

	// The request is consumed.
	if got := redrawCount(p.collect(now.Add(time.Millisecond))); got != 0 {
		t.Errorf("second collect = %d redraws, want 0", got)
	}
}

func TestPacerRedrawRequestsCoalesce(t *testing.T) {
	p := newPacer(500 * time.Millisecond)
	p.start(pacerEpoch)

	p.requestRedraw()
	p.requestRedraw()
	p.requestRedraw()
	if got := redrawCount(p.collect(pacerEpoch.Add(time.Millisecond))); got != 1 {
		t.Errorf("three requests produced %d redraws, want 1", got)
	}
}

func TestPacerRedrawOnCadence(t *testing.T) {
	p := newPacer(500 * time.Millisecond)
	p.start(pacerEpoch)

	if got := redrawCount(p.collect(pacerEpoch.Add(frameInterval))); got != 1 {
		t.Errorf("collect at cadence = %d redraws, want 1", got)
	}
}

func TestPacerBlinkAlternates(t *testing.T) {
	p := newPacer(100 * time.Millisecond)
	p.start(pacerEpoch)

	var phases []bool
	for i := 1; i <= 4; i++ {
		now := pacerEpoch.Add(time.Duration(i) * 100 * time.Millisecond)
		phases = append(phases, blinkPhases(p.collect(now))...)
	}

	want := []bool{false, true, false, true}
	if len(phases) != len(want) {
		t.Fatalf("got %d toggles, want %d", len(phases), len(want))
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("toggle %d phase = %v, want %v", i, phases[i], want[i])
		}
	}
}

func TestPacerBlinkDriftFree(t *testing.T) {
	p := newPacer(100 * time.Millisecond)
	p.start(pacerEpoch)

	// A slightly late collect keeps the schedule anchored at the epoch.
	p.collect(pacerEpoch.Add(105 * time.Millisecond))
	if _, last := p.blinkState(); !last.Equal(pacerEpoch.Add(100 * time.Millisecond)) {
		t.Errorf("lastBlink = %v, want %v", last, pacerEpoch.Add(100*time.Millisecond))
	}

	if got := blinkPhases(p.collect(pacerEpoch.Add(199 * time.Millisecond))); len(got) != 0 {
		t.Errorf("toggle fired %v before the anchored deadline", got)
	}
	if got := blinkPhases(p.collect(pacerEpoch.Add(200 * time.Millisecond))); len(got) != 1 {
		t.Errorf("got %d toggles at the anchored deadline, want 1", len(got))
	}
}

func TestPacerBlinkSnapsAfterStall(t *testing.T) {
	p := newPacer(100 * time.Millisecond)
	p.start(pacerEpoch)

	// Stall several intervals. Only one toggle fires and the schedule
	// re-anchors at now instead of replaying the backlog.
	stalled := pacerEpoch.Add(350 * time.Millisecond)
	if got := blinkPhases(p.collect(stalled)); len(got) != 1 {
		t.Fatalf("got %d toggles after stall, want 1", len(got))
	}
	phase, last := p.blinkState()
	if phase != false {
		t.Errorf("phase after single toggle = %v, want false", phase)
	}
	if !last.Equal(stalled) {
		t.Errorf("lastBlink = %v, want snap to %v", last, stalled)
	}

	if got := blinkPhases(p.collect(stalled.Add(99 * time.Millisecond))); len(got) != 0 {
		t.Errorf("toggle fired %v before a full interval after the snap", got)
	}
	if got := blinkPhases(p.collect(stalled.Add(100 * time.Millisecond))); len(got) != 1 {
		t.Errorf("got %d toggles one interval after the snap, want 1", len(got))
	}
}

func TestPacerRedrawAndBlinkTogether(t *testing.T) {
	p := newPacer(100 * time.Millisecond)
	p.start(pacerEpoch)

	evs := p.collect(pacerEpoch.Add(100 * time.Millisecond))
	if got := redrawCount(evs); got != 1 {
		t.Errorf("redraws = %d, want 1", got)
	}
	if got := blinkPhases(evs); len(got) != 1 {
		t.Errorf("toggles = %d, want 1", len(got))
	}
}

func TestPacerBlinkState(t *testing.T) {
	p := newPacer(100 * time.Millisecond)
	p.start(pacerEpoch)

	phase, last := p.blinkState()
	if phase != true {
		t.Errorf("initial phase = %v, want true", phase)
	}
	if !last.Equal(pacerEpoch) {
		t.Errorf("initial lastBlink = %v, want %v", last, pacerEpoch)
	}
}
