package simcore

import (
	"reflect"
	"testing"
)

func frameloopTestPackage() *Package {
	f := testFighter()
	pkg := &Package{
		Rules:    DefaultRules(),
		Fighters: map[string]*Fighter{"base": f},
		Stages:   map[string]*Stage{"base": testStage()},
	}
	pkg.Rules.StockCount = 3
	return pkg
}

func neutralInputs(n int) []Control {
	out := make([]Control, n)
	for i := range out {
		out[i] = neutralControl()
	}
	return out
}

func TestNewFrameLoopUnknownStage(t *testing.T) {
	pkg := frameloopTestPackage()
	if _, err := NewFrameLoop(pkg, "nope", []string{"base"}, 1); err == nil {
		t.Error("expected an unknown stage key to error")
	}
}

func TestNewFrameLoopUnknownFighter(t *testing.T) {
	pkg := frameloopTestPackage()
	if _, err := NewFrameLoop(pkg, "base", []string{"nope"}, 1); err == nil {
		t.Error("expected an unknown fighter key to error")
	}
}

func TestFrameLoopStepAdvancesFrame(t *testing.T) {
	pkg := frameloopTestPackage()
	fl, err := NewFrameLoop(pkg, "base", []string{"base", "base"}, 1)
	if err != nil {
		t.Fatalf("NewFrameLoop: %v", err)
	}

	if _, err := fl.Step(neutralInputs(2)); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if fl.CurrentFrame != 1 {
		t.Errorf("expected CurrentFrame 1, got %d", fl.CurrentFrame)
	}
}

func TestFrameLoopStepRejectsWrongInputCount(t *testing.T) {
	pkg := frameloopTestPackage()
	fl, _ := NewFrameLoop(pkg, "base", []string{"base", "base"}, 1)
	if _, err := fl.Step(neutralInputs(1)); err == nil {
		t.Error("expected a mismatched input count to error")
	}
}

// TestFrameLoopRollbackCorrectness is the spec's testable property 2:
// stepping forward k frames then rolling back to frame 0 reproduces the
// starting snapshot exactly.
func TestFrameLoopRollbackCorrectness(t *testing.T) {
	pkg := frameloopTestPackage()
	fl, _ := NewFrameLoop(pkg, "base", []string{"base", "base"}, 99)

	start := make([]Player, len(fl.Players))
	for i, p := range fl.Players {
		start[i] = p.Clone()
	}

	const k = 5
	for i := 0; i < k; i++ {
		if _, err := fl.Step(neutralInputs(2)); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if fl.CurrentFrame != k {
		t.Fatalf("expected to reach frame %d, got %d", k, fl.CurrentFrame)
	}

	if err := fl.RollbackTo(0); err != nil {
		t.Fatalf("RollbackTo: %v", err)
	}
	if fl.CurrentFrame != 0 {
		t.Fatalf("expected CurrentFrame 0 after rollback, got %d", fl.CurrentFrame)
	}

	for i, p := range fl.Players {
		if !reflect.DeepEqual(*p, start[i]) {
			t.Errorf("player %d did not match its pre-step snapshot after rollback:\n got  %+v\n want %+v", i, *p, start[i])
		}
	}
}

// TestFrameLoopReplayEquivalence is the spec's testable property 3:
// replaying the same recorded inputs from scratch reproduces the same
// final state as stepping forward live.
func TestFrameLoopReplayEquivalence(t *testing.T) {
	pkg := frameloopTestPackage()
	fl, _ := NewFrameLoop(pkg, "base", []string{"base", "base"}, 7)

	var recorded [][]Control
	const k = 6
	for i := 0; i < k; i++ {
		in := neutralInputs(2)
		if i == 2 {
			in[0].StickX = 0.5
		}
		recorded = append(recorded, in)
		if _, err := fl.Step(in); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	live := make([]Player, len(fl.Players))
	for i, p := range fl.Players {
		live[i] = p.Clone()
	}

	if err := fl.RollbackTo(0); err != nil {
		t.Fatalf("RollbackTo: %v", err)
	}
	for _, in := range recorded {
		if _, err := fl.Step(in); err != nil {
			t.Fatalf("replay step: %v", err)
		}
	}

	for i, p := range fl.Players {
		if !reflect.DeepEqual(*p, live[i]) {
			t.Errorf("player %d diverged on replay:\n got  %+v\n want %+v", i, *p, live[i])
		}
	}
}

func TestEvaluateEndOfGameLastPlayerStanding(t *testing.T) {
	pkg := frameloopTestPackage()
	fl, _ := NewFrameLoop(pkg, "base", []string{"base", "base"}, 1)

	fl.Players[1].SetAction(Eliminated)

	result := fl.evaluateEndOfGame()
	if result == nil {
		t.Fatal("expected a result once only one player remains")
	}
	if result.Winner != 0 {
		t.Errorf("expected player 0 to win, got %d", result.Winner)
	}
}

func TestEvaluateEndOfGameTimeLimit(t *testing.T) {
	pkg := frameloopTestPackage()
	pkg.Rules.Goal = GoalTime
	pkg.Rules.TimeLimit = 3
	fl, _ := NewFrameLoop(pkg, "base", []string{"base", "base"}, 1)
	fl.Players[0].Damage = 50
	fl.Players[1].Damage = 10
	fl.CurrentFrame = 3

	result := fl.evaluateEndOfGame()
	if result == nil {
		t.Fatal("expected a result once the time limit is reached")
	}
	if result.Winner != 1 {
		t.Errorf("expected the lower-damage player to win on time, got %d", result.Winner)
	}
}

func TestStepMultipleRejectsExcessiveRollback(t *testing.T) {
	pkg := frameloopTestPackage()
	fl, _ := NewFrameLoop(pkg, "base", []string{"base", "base"}, 1)
	for i := 0; i < MaxRollbackFrames+2; i++ {
		if _, err := fl.Step(neutralInputs(2)); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	nr := newNetplayRollback()
	err := fl.StepMultiple(0, map[int][]Control{}, nr)
	if err == nil {
		t.Error("expected a correction deeper than MaxRollbackFrames to error")
	}
}

func TestApplyHitResultSetsDamageActionAndHitstun(t *testing.T) {
	f := testFighter()
	p := newTestPlayer(f, Vector2{X: 0, Y: 0})
	p.Location = OnSurface{Index: 0, Along: 0}

	applyHitResult(p, HitResult{KBVel: 60, HitstunFrames: 12, SetAirborne: true, FlyVariant: false})

	if p.Action != Damage {
		t.Errorf("expected Damage action, got %d", p.Action)
	}
	if _, ok := p.Location.(Airborne); !ok {
		t.Errorf("expected the defender to be set airborne, got %+v", p.Location)
	}
}

func TestApplyHitResultFlyVariantAboveThreshold(t *testing.T) {
	f := testFighter()
	p := newTestPlayer(f, Vector2{})

	applyHitResult(p, HitResult{KBVel: 100, HitstunFrames: 20, SetAirborne: true, FlyVariant: true})

	if p.Action != DamageFly {
		t.Errorf("expected DamageFly action, got %d", p.Action)
	}
}

func TestApplyHitResultGrabbedPlayerBelowThresholdUnaffected(t *testing.T) {
	f := testFighter()
	p := newTestPlayer(f, Vector2{})
	p.SetAction(Idle)
	p.Location = GrabbedByPlayer{PlayerIndex: 0}

	applyHitResult(p, HitResult{KBVel: 30, HitstunFrames: 5, SetAirborne: true})

	if p.Action != Idle {
		t.Errorf("expected a grabbed player below the kb_vel threshold to stay unaffected, got %d", p.Action)
	}
}

func TestAddHandlerReceivesSteppedEvent(t *testing.T) {
	pkg := frameloopTestPackage()
	fl, _ := NewFrameLoop(pkg, "base", []string{"base", "base"}, 1)

	ch := fl.AddHandler(EventStepped)
	if _, err := fl.Step(neutralInputs(2)); err != nil {
		t.Fatalf("Step: %v", err)
	}

	msg := <-ch
	if msg.Event != EventStepped || msg.Frame != 1 {
		t.Errorf("expected a stepped event for frame 1, got %+v", msg)
	}
}
