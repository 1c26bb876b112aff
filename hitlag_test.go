package simcore

import (
	"math"
	"testing"
)

func TestWeightFactorMidRange(t *testing.T) {
	// weight_factor(1) = 2 - 2*1/2 = 1
	if got := weightFactor(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("got %f, want 1", got)
	}
}

func TestResolveHitDefAppliesDamageAndSetsHitlag(t *testing.T) {
	f := testFighter()
	attacker := newTestPlayer(f, Vector2{X: 0, Y: 0})
	defender := newTestPlayer(f, Vector2{X: 5, Y: 0})
	attacker.FaceRight = true

	hb := Hitbox{Damage: 10, BKB: 20, KBG: 100, Angle: 45, HitstunKind: HitstunProportional, HitstunValue: 0.4}
	hurt := HurtProperties{DamageMult: 1}

	res := ResolveHitDef(attacker, defender, 0, hb, hurt, f.Weight, false)

	if defender.Damage != res.DamageDone {
		t.Errorf("expected defender damage to match result, got %f vs %f", defender.Damage, res.DamageDone)
	}
	if defender.Hitlag.Kind != HitlagLaunch {
		t.Errorf("expected defender hitlag to be Launch, got %d", defender.Hitlag.Kind)
	}
	if attacker.Hitlag.Kind != HitlagFrozen {
		t.Errorf("expected attacker hitlag to be Frozen, got %d", attacker.Hitlag.Kind)
	}
	if defender.HitBy == nil || *defender.HitBy != 0 {
		t.Errorf("expected defender.HitBy to point at attacker index 0, got %v", defender.HitBy)
	}
}

func TestResolveHitDefCrouchReducesKBVel(t *testing.T) {
	f := testFighter()
	hb := Hitbox{Damage: 20, BKB: 30, KBG: 80, Angle: 45, HitstunKind: HitstunProportional, HitstunValue: 0.4}
	hurt := HurtProperties{DamageMult: 1}

	attacker1 := newTestPlayer(f, Vector2{})
	defender1 := newTestPlayer(f, Vector2{})
	standing := ResolveHitDef(attacker1, defender1, 0, hb, hurt, f.Weight, false)

	attacker2 := newTestPlayer(f, Vector2{})
	defender2 := newTestPlayer(f, Vector2{})
	crouching := ResolveHitDef(attacker2, defender2, 0, hb, hurt, f.Weight, true)

	if crouching.KBVel >= standing.KBVel {
		t.Errorf("expected crouching kb_vel (%f) to be less than standing (%f)", crouching.KBVel, standing.KBVel)
	}
}

func TestResolveAngleSakuraiLowKB(t *testing.T) {
	attacker := &Player{FaceRight: true, BPS: Vector2{X: 0, Y: 0}}
	defender := &Player{BPS: Vector2{X: 5, Y: 0}}
	hb := Hitbox{Angle: 361}
	if got := resolveAngle(hb, 40, attacker, defender); got != 0 {
		t.Errorf("expected low-kb sakurai angle 0, got %f", got)
	}
	if got := resolveAngle(hb, 120, attacker, defender); got != 44 {
		t.Errorf("expected high-kb sakurai angle 44, got %f", got)
	}
}

func TestResolveAngleReverseHitMirrorsBehindAttacker(t *testing.T) {
	attacker := &Player{FaceRight: true, BPS: Vector2{X: 10, Y: 0}}
	defender := &Player{BPS: Vector2{X: 0, Y: 0}} // behind a right-facing attacker
	hb := Hitbox{Angle: 45, ReverseHit: true}

	got := resolveAngle(hb, 50, attacker, defender)
	want := 180.0 - 45.0
	if got != want {
		t.Errorf("got %f, want %f", got, want)
	}
}

func TestStepHitlagCountsDownAndExpires(t *testing.T) {
	p := &Player{Hitlag: Hitlag{Kind: HitlagFrozen, Counter: 2}}
	rng := newRNGForFrame(1, 1)

	stepHitlag(p, rng)
	if p.Hitlag.Kind == HitlagNone {
		t.Fatal("expected hitlag to persist with counter remaining")
	}
	stepHitlag(p, rng)
	if p.Hitlag.Kind != HitlagNone {
		t.Errorf("expected hitlag to expire, got %+v", p.Hitlag)
	}
}

func TestApplyDIClampsToEighteenDegrees(t *testing.T) {
	p := &Player{
		Hitlag:        Hitlag{Angle: 45, KBVel: 100},
		StickSnapshot: Vector2{X: 0, Y: 1}, // full-up stick
	}
	applyDI(p)

	resultAngle := math.Atan2(p.KBYVel, p.KBXVel) * 180 / math.Pi
	diff := math.Abs(resultAngle - 45)
	if diff > 18.5 {
		t.Errorf("expected DI deflection to stay within 18 degrees, got %f", diff)
	}
}

func TestNewRNGForFrameDeterministic(t *testing.T) {
	a := newRNGForFrame(42, 7)
	b := newRNGForFrame(42, 7)
	av := a.uniform(0, 1)
	bv := b.uniform(0, 1)
	if av != bv {
		t.Errorf("expected same (seed,frame) to reproduce the same stream, got %f vs %f", av, bv)
	}
}

func TestNewRNGForFrameVariesByFrame(t *testing.T) {
	a := newRNGForFrame(42, 7)
	b := newRNGForFrame(42, 8)
	if a.uniform(0, 1) == b.uniform(0, 1) {
		t.Error("expected different frames to (almost certainly) diverge")
	}
}
