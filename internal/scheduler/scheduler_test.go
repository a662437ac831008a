package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestLoop() (*Loop, *time.Time) {
	now := epoch
	l := NewLoop(10 * time.Millisecond)
	l.SetClock(func() time.Time { return now })
	return l, &now
}

// TestRunDue_RenewsWithDefaultFrame verifies tasks renew after the frame time
func TestRunDue_RenewsWithDefaultFrame(t *testing.T) {
	l, _ := newTestLoop()
	ticks := 0
	h := l.Add(func(t *Tick) Action {
		ticks++
		return Renew
	})

	if n := l.RunDue(epoch); n != 1 {
		t.Fatalf("Expected 1 task to run, got %d", n)
	}
	next, ok := l.Next()
	if !ok || !next.Equal(epoch.Add(10*time.Millisecond)) {
		t.Errorf("Expected next tick at +10ms, got %v", next)
	}

	// Not due yet
	if n := l.RunDue(epoch.Add(5 * time.Millisecond)); n != 0 {
		t.Errorf("Expected no task to run early, got %d", n)
	}
	l.RunDue(epoch.Add(10 * time.Millisecond))

	if ticks != 2 || !h.Active() {
		t.Errorf("Expected 2 ticks and an active task, got %d ticks", ticks)
	}
}

func TestRunDue_SetDelay(t *testing.T) {
	l, _ := newTestLoop()
	l.Add(func(t *Tick) Action {
		t.SetDelay(500 * time.Millisecond)
		return Renew
	})

	l.RunDue(epoch)
	next, _ := l.Next()
	if !next.Equal(epoch.Add(500 * time.Millisecond)) {
		t.Errorf("Expected next tick at +500ms, got %v", next.Sub(epoch))
	}
}

// TestRunDue_StopRemovesTask verifies a task that returns Stop never ticks again
func TestRunDue_StopRemovesTask(t *testing.T) {
	l, _ := newTestLoop()
	ticks := 0
	h := l.Add(func(t *Tick) Action {
		ticks++
		if ticks == 3 {
			return Stop
		}
		return Renew
	})

	for i := 0; i < 10; i++ {
		l.RunDue(epoch.Add(time.Duration(i) * time.Second))
	}

	if ticks != 3 {
		t.Errorf("Expected 3 ticks, got %d", ticks)
	}
	if h.Active() || l.Len() != 0 {
		t.Error("Expected task to be removed")
	}
	if _, ok := l.Next(); ok {
		t.Error("Expected no next tick")
	}
}

// TestRunDue_OncePerPass verifies a zero delay does not spin within one pass
func TestRunDue_OncePerPass(t *testing.T) {
	l, _ := newTestLoop()
	ticks := 0
	l.Add(func(t *Tick) Action {
		ticks++
		t.SetDelay(0)
		return Renew
	})

	l.RunDue(epoch)
	if ticks != 1 {
		t.Errorf("Expected 1 tick per pass, got %d", ticks)
	}
}

// TestRunDue_Order verifies due tasks run earliest first, then in add order
func TestRunDue_Order(t *testing.T) {
	l, _ := newTestLoop()
	var got []string
	record := func(name string) Func {
		return func(t *Tick) Action {
			got = append(got, name)
			return Stop
		}
	}

	l.AddAfter(2*time.Millisecond, record("late"))
	l.Add(record("first"))
	l.Add(record("second"))

	l.RunDue(epoch.Add(time.Second))

	want := []string{"first", "second", "late"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
}

// TestCancel_WithinPass verifies a task cancelled by an earlier task does not tick
func TestCancel_WithinPass(t *testing.T) {
	l, _ := newTestLoop()
	var victim *Handle
	victimTicks := 0

	l.Add(func(t *Tick) Action {
		victim.Cancel()
		return Stop
	})
	victim = l.Add(func(t *Tick) Action {
		victimTicks++
		return Renew
	})

	l.RunDue(epoch)

	if victimTicks != 0 {
		t.Errorf("Cancelled task ticked %d times", victimTicks)
	}
	if l.Len() != 0 {
		t.Errorf("Expected empty loop, got %d tasks", l.Len())
	}
}

func TestCancel_Self(t *testing.T) {
	l, _ := newTestLoop()
	var h *Handle
	h = l.Add(func(t *Tick) Action {
		h.Cancel()
		return Renew
	})

	l.RunDue(epoch)
	if h.Active() || l.Len() != 0 {
		t.Error("Expected self-cancelled task to be removed")
	}

	// Second cancel is a no-op
	h.Cancel()
	var nilHandle *Handle
	nilHandle.Cancel()
}

func TestStop(t *testing.T) {
	l, _ := newTestLoop()
	a := l.Add(func(t *Tick) Action { return Renew })
	b := l.Add(func(t *Tick) Action { return Renew })

	l.Stop()

	if a.Active() || b.Active() || l.Len() != 0 {
		t.Error("Expected all tasks cancelled")
	}
}

// TestRun_ReturnsWhenIdle verifies Run exits once every task has stopped
func TestRun_ReturnsWhenIdle(t *testing.T) {
	l := NewLoop(time.Millisecond)
	ticks := 0
	l.Add(func(t *Tick) Action {
		ticks++
		if ticks == 3 {
			return Stop
		}
		return Renew
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if ticks != 3 {
		t.Errorf("Expected 3 ticks, got %d", ticks)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	l := NewLoop(time.Millisecond)
	l.AddAfter(time.Hour, func(t *Tick) Action { return Renew })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewLoop_DefaultFrame(t *testing.T) {
	if got := NewLoop(0).Frame(); got != DefaultFrame {
		t.Errorf("Expected %v, got %v", DefaultFrame, got)
	}
}
