package simcore

import (
	"math"
	"math/rand"
)

// rngState wraps a *rand.Rand seeded once per tick from (init_seed,
// current_frame), per spec.md §4.5/§9: "never persist RNG state across
// frames... makes rollback trivially correct". FrameLoop.Step creates one
// rngState per tick and hands it to the physics pass, so every consumer
// within the tick shares one deterministic stream.
type rngState struct{ r *rand.Rand }

// newRNGForFrame seeds a new rngState deterministically from the game's
// init seed and the frame number being simulated.
func newRNGForFrame(initSeed int64, frame int) *rngState {
	mixed := initSeed ^ int64(uint64(frame)*0x9E3779B97F4A7C15)
	return &rngState{r: rand.New(rand.NewSource(mixed))}
}

// uniform returns a uniform float64 in [lo, hi).
func (s *rngState) uniform(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// shieldBreakStunFrames is hard-coded per spec.md §9's flagged design
// note; see DESIGN.md's Open Question decision for why this stays a named
// constant instead of a guessed Shield config field.
const shieldBreakStunFrames = 490

// weightFactor converts a fighter's weight into the knockback formula's
// weight term: 2 - 2w/(1+w) (spec.md §4.4).
func weightFactor(weight float64) float64 {
	return 2 - 2*weight/(1+weight)
}

// HitResult is the outcome of resolving one HitDef connection, carrying
// everything the caller needs to mutate both attacker and defender.
type HitResult struct {
	DamageDone   float64
	KBVel        float64
	Angle        float64
	HitstunFrames float64
	SetAirborne  bool
	FlyVariant   bool
}

// ResolveHitDef applies the hitlag & launch pipeline formulas of spec.md
// §4.4 to one attacker/defender hitbox/hurtbox pair and mutates both
// players' Hitlag. damage and weight come from the defender's current
// state and fighter; inCrouch reduces kb_vel per spec.md §4.4.
func ResolveHitDef(attacker, defender *Player, attackerIndex int, hb Hitbox, hurt HurtProperties, defenderWeight float64, inCrouch bool) HitResult {
	damageDone := hb.Damage * hurt.DamageMult
	defender.Damage += damageDone

	damageLaunch := 0.05*hb.Damage*(damageDone+math.Floor(defender.Damage)) + (damageDone+defender.Damage)*0.1
	weight := weightFactor(defenderWeight)

	kbg := hb.KBG + hurt.KBGAdd
	bkb := hb.BKB + hurt.BKBAdd
	kbVel := math.Min(2500, bkb+kbg*(damageLaunch*weight*1.4+18))
	if inCrouch {
		kbVel *= 0.67
	}

	var hitstun float64
	switch hb.HitstunKind {
	case HitstunFlat:
		hitstun = hb.HitstunValue
	default:
		hitstun = hb.HitstunValue * kbVel
	}

	angle := resolveAngle(hb, kbVel, attacker, defender)

	counter := defender.Damage/3 + 3
	defender.Hitlag = Hitlag{Kind: HitlagLaunch, Counter: counter, KBVel: kbVel, Angle: angle, WobbleX: 0}
	attacker.Hitlag = Hitlag{Kind: HitlagFrozen, Counter: counter}

	idx := attackerIndex
	defender.HitBy = &idx

	flyVariant := kbVel > 80
	return HitResult{
		DamageDone:    damageDone,
		KBVel:         kbVel,
		Angle:         angle,
		HitstunFrames: hitstun,
		SetAirborne:   true,
		FlyVariant:    flyVariant,
	}
}

// resolveAngle implements spec.md §4.4's sakurai-angle resolution: 361
// becomes 0 for low-kb, 44 for high-kb, and the mirrored value 180-361
// becomes 180 or 136 respectively; a reverse-hit hitbox mirrors the angle
// when the defender is behind the attacker.
func resolveAngle(hb Hitbox, kbVel float64, attacker, defender *Player) float64 {
	angle := hb.Angle
	if angle == 361 {
		if kbVel < 80 {
			angle = 0
		} else {
			angle = 44
		}
	} else if angle == 180-361 {
		if kbVel < 80 {
			angle = 180
		} else {
			angle = 180 - 44
		}
	}

	if hb.ReverseHit && defenderBehindAttacker(attacker, defender) {
		angle = 180 - angle
	}
	return angle
}

func defenderBehindAttacker(attacker, defender *Player) bool {
	if attacker.FaceRight {
		return defender.BPS.X < attacker.BPS.X
	}
	return defender.BPS.X > attacker.BPS.X
}

// stepHitlag decrements a player's hitlag counter, redraws wobble while
// frozen, and on expiry of a Launch applies DI and seeds kb_*_vel /
// kb_*_dec (spec.md §4.2 step 1 / §4.4).
func stepHitlag(p *Player, rng *rngState) {
	if p.Hitlag.Kind == HitlagNone {
		return
	}
	p.Hitlag.Counter--
	if p.Hitlag.Kind == HitlagLaunch {
		p.Hitlag.WobbleX = rng.uniform(-1.5, 1.5)
	}
	if p.Hitlag.Counter > 0 {
		return
	}

	if p.Hitlag.Kind == HitlagLaunch {
		applyDI(p)
	}
	p.Hitlag = Hitlag{Kind: HitlagNone}
}

// applyDI implements spec.md §4.2 step 1: rotate the stored launch angle
// by an offset proportional to sin(angle - stick_angle) * |stick|^2,
// clamped to +-18 degrees, then project kb_vel onto the new angle.
func applyDI(p *Player) {
	stickAngle := math.Atan2(p.StickSnapshot.Y, p.StickSnapshot.X)
	stickMag := clampf(p.StickSnapshot.Len(), 0, 1)

	angleRad := p.Hitlag.Angle * math.Pi / 180
	offset := math.Sin(angleRad-stickAngle) * stickMag * stickMag * (math.Pi / 10)
	offset = clampf(offset, -18*math.Pi/180, 18*math.Pi/180)
	newAngle := angleRad - offset

	p.KBXVel = math.Cos(newAngle) * p.Hitlag.KBVel * 0.03
	p.KBYVel = math.Sin(newAngle) * p.Hitlag.KBVel * 0.03
	p.KBXDec = math.Cos(newAngle) * 0.051
	p.KBYDec = math.Sin(newAngle) * 0.051
}
