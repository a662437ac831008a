package panel

import (
	"testing"
	"time"

	"github.com/liminalpurple/sticker-panel/internal/scheduler"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

func animatedIcon(repeat, interval int) *sticker.Icon {
	return &sticker.Icon{
		Source: "/g/cat",
		Kind:   sticker.KindDirectory,
		Frames: []sticker.Frame{
			{Path: "/g/cat/cat_1_100.png", Order: 1, Duration: 100},
			{Path: "/g/cat/cat_2_200.png", Order: 2, Duration: 200},
			{Path: "/g/cat/cat_3_300.png", Order: 3, Duration: 300},
		},
		RepeatCount:    repeat,
		RepeatInterval: interval,
	}
}

func newAnimationLoop() *scheduler.Loop {
	loop := scheduler.NewLoop(frame)
	loop.SetClock(func() time.Time { return epoch })
	return loop
}

// drain runs the loop at each next due time until no task remains and
// returns the delays between ticks
func drain(t *testing.T, loop *scheduler.Loop) []time.Duration {
	t.Helper()
	var delays []time.Duration
	last := epoch
	for i := 0; loop.Len() > 0; i++ {
		if i > 100 {
			t.Fatal("Loop did not stop")
		}
		next, _ := loop.Next()
		delays = append(delays, next.Sub(last))
		last = next
		loop.RunDue(next)
	}
	return delays
}

// TestAnimation_PlaysRepeatsThenStops verifies frame delays and repeat handling
func TestAnimation_PlaysRepeatsThenStops(t *testing.T) {
	loop := newAnimationLoop()
	icon := animatedIcon(1, 50)

	var shown []string
	a := NewAnimation(loop, icon, func(_ *sticker.Icon, f sticker.Frame) {
		shown = append(shown, f.Path)
	})
	a.Start()

	delays := drain(t, loop)

	if len(shown) != 6 {
		t.Fatalf("Expected 6 frames shown, got %d", len(shown))
	}
	for i, path := range shown {
		if want := icon.Frames[i%3].Path; path != want {
			t.Errorf("Frame %d: expected %s, got %s", i, want, path)
		}
	}

	// First tick is immediate, then each frame's duration, the repeat
	// interval, and the final stop tick after the last frame
	want := []time.Duration{0, 100, 200, 300, 50, 100, 200, 300}
	ms := time.Millisecond
	if len(delays) != len(want) {
		t.Fatalf("Expected %d ticks, got %d", len(want), len(delays))
	}
	for i := range want {
		if delays[i] != want[i]*ms {
			t.Errorf("Tick %d: expected delay %v, got %v", i, want[i]*ms, delays[i])
		}
	}

	if a.Running() {
		t.Error("Expected animation stopped")
	}
	if f, r := a.Cursor(); f != 0 || r != 0 {
		t.Errorf("Expected cursors reset, got frame %d repeat %d", f, r)
	}
}

func TestAnimation_NoRepeat(t *testing.T) {
	loop := newAnimationLoop()
	shown := 0
	a := NewAnimation(loop, animatedIcon(0, 0), func(*sticker.Icon, sticker.Frame) { shown++ })
	a.Start()
	drain(t, loop)

	if shown != 3 {
		t.Errorf("Expected 3 frames shown, got %d", shown)
	}
}

// TestAnimation_RestartFromFirstFrame verifies Start cancels the running task
func TestAnimation_RestartFromFirstFrame(t *testing.T) {
	loop := newAnimationLoop()
	icon := animatedIcon(0, 0)
	var shown []int
	a := NewAnimation(loop, icon, func(_ *sticker.Icon, f sticker.Frame) {
		shown = append(shown, f.Order)
	})

	a.Start()
	loop.RunDue(epoch)
	loop.RunDue(epoch.Add(100 * time.Millisecond))
	if f, _ := a.Cursor(); f != 2 {
		t.Fatalf("Expected cursor at frame 2, got %d", f)
	}

	a.Start()
	if loop.Len() != 1 {
		t.Fatalf("Expected one task after restart, got %d", loop.Len())
	}
	if f, r := a.Cursor(); f != 0 || r != 0 {
		t.Errorf("Expected cursors reset, got %d %d", f, r)
	}

	loop.RunDue(epoch)
	if shown[len(shown)-1] != 1 {
		t.Errorf("Expected frame 1 after restart, got %d", shown[len(shown)-1])
	}
}

func TestAnimation_Stop(t *testing.T) {
	loop := newAnimationLoop()
	shown := 0
	a := NewAnimation(loop, animatedIcon(3, 0), func(*sticker.Icon, sticker.Frame) { shown++ })

	a.Start()
	loop.RunDue(epoch)
	a.Stop()
	a.Stop()

	if a.Running() || loop.Len() != 0 {
		t.Error("Expected animation cancelled")
	}
	loop.RunDue(epoch.Add(time.Hour))
	if shown != 1 {
		t.Errorf("Expected 1 frame shown, got %d", shown)
	}
}
