package simcore

import "testing"

func TestControllerHistoryPushOrdering(t *testing.T) {
	h := &ControllerHistory{}
	h.Push(Control{StickX: 1})
	h.Push(Control{StickX: 2})

	if h.At(0).StickX != 2 {
		t.Errorf("expected newest sample at index 0, got %f", h.At(0).StickX)
	}
	if h.At(1).StickX != 1 {
		t.Errorf("expected previous sample at index 1, got %f", h.At(1).StickX)
	}
}

func TestControllerHistoryOutOfRangeReturnsEmpty(t *testing.T) {
	h := &ControllerHistory{}
	h.Push(Control{StickX: 1})
	if h.At(sampleHistoryLen).StickX != 0 {
		t.Error("expected out-of-range lookup to return an empty control")
	}
}

func TestApplyDeadzone(t *testing.T) {
	if applyDeadzone(0.1) != 0 {
		t.Error("expected a small stick value to be zeroed by the deadzone")
	}
	if applyDeadzone(0.9) != 0.9 {
		t.Error("expected a large stick value to pass through unchanged")
	}
}

func TestCheckJumpButtonEdge(t *testing.T) {
	h := &ControllerHistory{}
	h.Push(Control{Y: true})
	if !checkJump(h) {
		t.Error("expected a Y button press to satisfy checkJump")
	}
}

func TestCheckJumpStickSnap(t *testing.T) {
	h := &ControllerHistory{}
	h.Push(Control{StickY: 0.1})
	h.Push(Control{StickY: 0.9})
	if !checkJump(h) {
		t.Error("expected a fast upward stick snap to satisfy checkJump")
	}
}

func TestCheckSmashTurnFacingRight(t *testing.T) {
	h := &ControllerHistory{}
	h.Push(Control{StickX: -0.9})
	if !checkSmashTurn(h, true) {
		t.Error("expected a hard reverse stick to trigger a smash turn")
	}
}

func TestCheckShieldPowershieldEdge(t *testing.T) {
	h := &ControllerHistory{}
	h.Push(Control{L: false})
	h.Push(Control{L: true})
	pressed, isEdge := checkShield(h)
	if !pressed || !isEdge {
		t.Errorf("expected a fresh L press to report pressed+edge, got pressed=%v edge=%v", pressed, isEdge)
	}
}

func TestCheckShieldHeldIsNotAnEdge(t *testing.T) {
	h := &ControllerHistory{}
	h.Push(Control{L: true})
	h.Push(Control{L: true})
	pressed, isEdge := checkShield(h)
	if !pressed || isEdge {
		t.Errorf("expected a held L to report pressed without a fresh edge, got pressed=%v edge=%v", pressed, isEdge)
	}
}
