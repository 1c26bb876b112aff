package simcore

// Control is one controller's digital/analog state for a single frame
// (spec.md §6): twelve digital buttons, four analog stick axes, two
// triggers, and a plugged-in flag. Field names mirror
// original_source/src/controller.rs and events.go's PreFrameUpdatePayload
// joystick/cstick/trigger naming.
type Control struct {
	A, B, X, Y                 bool
	Up, Down, Left, Right      bool
	L, R, Z, Start             bool
	StickX, StickY             float64
	CStickX, CStickY           float64
	LTrigger, RTrigger         float64
	PluggedIn                  bool
}

// stickDeadzone is applied to both stick axes (spec.md §6); no calibration
// offset is taken from the first sample.
const stickDeadzone = 0.28

// applyDeadzone zeroes any axis value strictly inside
// (-stickDeadzone, stickDeadzone).
func applyDeadzone(v float64) float64 {
	if v > -stickDeadzone && v < stickDeadzone {
		return 0
	}
	return v
}

// sampleHistoryLen is the number of past frames of controller input the
// core consumes each tick (spec.md §6): "index 0 is newest".
const sampleHistoryLen = 8

// emptyControl is substituted for any history slot missing a real sample.
var emptyControl = Control{}

// ControllerHistory is a per-player ring of the last sampleHistoryLen
// Control samples, index 0 always the newest.
type ControllerHistory struct {
	samples [sampleHistoryLen]Control
}

// Push inserts a new sample as index 0, shifting older samples back and
// dropping the oldest.
func (h *ControllerHistory) Push(c Control) {
	c.StickX = applyDeadzone(c.StickX)
	c.StickY = applyDeadzone(c.StickY)
	copy(h.samples[1:], h.samples[:sampleHistoryLen-1])
	h.samples[0] = c
}

// At returns the sample framesAgo frames in the past (0 = current),
// substituting an all-zero Control past the buffer's depth.
func (h *ControllerHistory) At(framesAgo int) Control {
	if framesAgo < 0 || framesAgo >= sampleHistoryLen {
		return emptyControl
	}
	return h.samples[framesAgo]
}

// Current is shorthand for At(0).
func (h *ControllerHistory) Current() Control { return h.samples[0] }

// --- transition-check predicates (spec.md §4.1) ---
//
// Each check_* reads at most the fixed window of history it needs and
// reports whether its edge condition fired this frame. These are applied
// in the fixed priority order documented per action in action_machine.go.

func checkJump(h *ControllerHistory) bool {
	c := h.Current()
	if c.X || c.Y {
		return true
	}
	prev := h.At(1)
	return c.StickY-prev.StickY > 0.66 && prev.StickY < 0.2
}

// checkJumpAerial additionally requires the caller to have confirmed
// airJumpsLeft > 0; consuming the jump and setting y_vel is the caller's
// responsibility (action_machine.go), matching player.rs::aerial_action.
func checkJumpAerial(h *ControllerHistory) bool {
	return checkJump(h)
}

func checkDash(h *ControllerHistory) bool {
	c := h.Current()
	twoAgo := h.At(2)
	return c.StickX > 0.79 && twoAgo.StickX < 0.3
}

func checkSmashTurn(h *ControllerHistory, faceRight bool) bool {
	c := h.Current()
	if faceRight {
		return c.StickX < -0.79
	}
	return c.StickX > 0.79
}

func checkTiltTurn(h *ControllerHistory, faceRight bool) bool {
	c := h.Current()
	if faceRight {
		return c.StickX < -0.3 && c.StickX >= -0.79
	}
	return c.StickX > 0.3 && c.StickX <= 0.79
}

func checkCrouch(h *ControllerHistory) bool {
	return h.Current().StickY < -0.77
}

func checkWalk(h *ControllerHistory) bool {
	c := h.Current()
	return c.StickX > 0.3 || c.StickX < -0.3
}

func checkWalkTeeter(h *ControllerHistory) bool {
	c := h.Current()
	return c.StickX > 0.6 || c.StickX < -0.6
}

// checkShield reports whether shield is held this frame and whether that
// hold is a fresh press edge (a powershield, as opposed to a held trigger).
func checkShield(h *ControllerHistory) (pressed bool, isPowerShieldEdge bool) {
	c := h.Current()
	prev := h.At(1)
	heldNow := c.L || c.R || c.LTrigger > 0.165 || c.RTrigger > 0.165
	heldPrev := prev.L || prev.R || prev.LTrigger > 0.165 || prev.RTrigger > 0.165
	return heldNow, heldNow && !heldPrev
}

func checkAttacks(h *ControllerHistory) bool {
	c := h.Current()
	return c.A || c.Z
}

func checkAttacksAerial(h *ControllerHistory) bool {
	return checkAttacks(h)
}

// checkSmash reports an attack-button press with a coincident stick edge
// over threshold within the last two frames, or a c-stick deflection from
// a neutral prior frame.
func checkSmash(h *ControllerHistory) bool {
	c := h.Current()
	if c.A {
		for i := 1; i <= 2; i++ {
			prev := h.At(i)
			if abs(c.StickX-prev.StickX) > 0.79 || abs(c.StickY-prev.StickY) > 0.79 {
				return true
			}
		}
	}
	prev := h.At(1)
	return (abs(c.CStickX) > 0.79 || abs(c.CStickY) > 0.79) &&
		abs(prev.CStickX) < 0.3 && abs(prev.CStickY) < 0.3
}

func checkSpecial(h *ControllerHistory) bool { return h.Current().B }

func checkTaunt(h *ControllerHistory) (fired bool, up, down, left, right bool) {
	c := h.Current()
	return c.Up || c.Down || c.Left || c.Right, c.Up, c.Down, c.Left, c.Right
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
