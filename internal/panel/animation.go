package panel

import (
	"time"

	"github.com/liminalpurple/sticker-panel/internal/scheduler"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
)

// Display shows one frame of an animated icon
type Display func(icon *sticker.Icon, frame sticker.Frame)

// Animation plays the frames of one icon on a loop. It stops on its last
// frame after the icon's repeat count is used up.
type Animation struct {
	loop    *scheduler.Loop
	icon    *sticker.Icon
	display Display

	currentFrame  int
	currentRepeat int
	handle        *scheduler.Handle
}

// NewAnimation creates a stopped animation
func NewAnimation(loop *scheduler.Loop, icon *sticker.Icon, display Display) *Animation {
	return &Animation{loop: loop, icon: icon, display: display}
}

// Icon returns the animated icon
func (a *Animation) Icon() *sticker.Icon {
	return a.icon
}

// Start plays the animation from the first frame, restarting it when it is
// already running
func (a *Animation) Start() {
	a.Stop()
	a.currentFrame = 0
	a.currentRepeat = 0
	a.handle = a.loop.Add(a.tick)
}

// Stop cancels the animation's task
func (a *Animation) Stop() {
	a.handle.Cancel()
	a.handle = nil
}

// Running reports whether the animation is scheduled
func (a *Animation) Running() bool {
	return a.handle.Active()
}

// Cursor returns the next frame index and the current repeat
func (a *Animation) Cursor() (frame, repeat int) {
	return a.currentFrame, a.currentRepeat
}

func (a *Animation) tick(t *scheduler.Tick) scheduler.Action {
	if a.currentFrame < len(a.icon.Frames) {
		frame := a.icon.Frames[a.currentFrame]
		t.SetDelay(frame.Delay())
		if a.display != nil {
			a.display(a.icon, frame)
		}
		a.currentFrame++
		return scheduler.Renew
	}

	if a.currentRepeat < a.icon.RepeatCount {
		a.currentRepeat++
		a.currentFrame = 0
		t.SetDelay(time.Duration(a.icon.RepeatInterval) * time.Millisecond)
		return scheduler.Renew
	}

	a.currentFrame = 0
	a.currentRepeat = 0
	return scheduler.Stop
}
