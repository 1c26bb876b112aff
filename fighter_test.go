package simcore

import "testing"

func TestFighterActionDefClampsOutOfRange(t *testing.T) {
	f := NewBaseFighter("test")
	a, _ := f.ActionDef(Action(99999))
	if a != Idle {
		t.Errorf("expected out-of-range action to clamp to Idle, got %d", a)
	}
	a, _ = f.ActionDef(Action(-1))
	if a != Idle {
		t.Errorf("expected negative action to clamp to Idle, got %d", a)
	}
}

func TestFighterFrameCountMatchesActionDef(t *testing.T) {
	f := NewBaseFighter("test")
	f.Actions[Idle] = ActionDef{Frames: make([]ActionFrame, 5)}
	if got := f.FrameCount(Idle); got != 5 {
		t.Errorf("got %d frames, want 5", got)
	}
}
