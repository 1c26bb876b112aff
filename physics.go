package simcore

import "math"

// framesSinceLedgeGrabEligible is the cooldown before a player may grab a
// new ledge again (spec.md §4.2 step 6).
const framesSinceLedgeGrabEligible = 30

// physicsStep advances one player's position/velocity/location for one
// tick, mirroring player.rs::physics_step (spec.md §4.2). stage provides
// surfaces and bounds; players is the full roster (for ledge-hog checks);
// playerIndex is this player's own index (for tie-breaking and hit_by).
// frame is the current simulation tick, used for DeathRecord and RNG.
func physicsStep(p *Player, f *Fighter, stage *Stage, players []*Player, playerIndex int, frame int, rng *rngState) {
	prevAction := p.Action

	if p.Hitlag.Kind != HitlagNone {
		stepHitlag(p, rng)
		if p.Hitlag.Kind != HitlagNone {
			return // frozen this tick; only wobble moved
		}
	}

	applyKnockbackDecay(p, f)

	vx, vy := combinedVelocity(p, f)

	switch loc := p.Location.(type) {
	case Airborne:
		newPos := Vector2{X: loc.X + vx, Y: loc.Y + vy}
		if landed, surfIndex, along := testFloorCrossing(stage, Vector2{X: loc.X, Y: loc.Y}, newPos, vy, playerFrameAllowsPassThrough(p, f)); landed {
			p.Location = OnSurface{Index: surfIndex, Along: along}
			landOn(p, f, prevAction)
		} else {
			p.Location = Airborne{X: newPos.X, Y: newPos.Y}
		}
	case OnSurface:
		advanceOnSurface(p, f, stage, loc, vx)
	}

	p.BPS = locationXY(p.Location, stage, players)

	stepHitstun(p, f)
	checkDeath(p, f, stage, playerIndex, frame)
	checkLedgeGrab(p, f, stage, players, playerIndex)
}

// combinedVelocity combines per-frame velocity with knockback velocity,
// substituting a frame's set_x_vel/set_y_vel override (relative to facing)
// if present (spec.md §4.2 step 3).
func combinedVelocity(p *Player, f *Fighter) (float64, float64) {
	vx := p.XVel
	vy := p.YVel

	_, def := f.ActionDef(p.Action)
	if p.Frame >= 0 && p.Frame < len(def.Frames) {
		frame := def.Frames[p.Frame]
		if frame.SetXVel != nil {
			vx = relativeF(*frame.SetXVel, p.FaceRight)
		}
		if frame.SetYVel != nil {
			vy = *frame.SetYVel
		}
	}

	return vx + p.KBXVel, vy + p.KBYVel
}

// applyKnockbackDecay subtracts per-axis knockback decay: airborne uses
// kb_*_dec, grounded uses friction in x and zeroes y, both clamping
// through zero (spec.md §4.2 step 2).
func applyKnockbackDecay(p *Player, f *Fighter) {
	if p.isGrounded() {
		if p.KBXVel > 0 {
			p.KBXVel = math.Max(0, p.KBXVel-f.Friction)
		} else if p.KBXVel < 0 {
			p.KBXVel = math.Min(0, p.KBXVel+f.Friction)
		}
		p.KBYVel = 0
		return
	}
	if p.KBXVel > 0 {
		p.KBXVel = math.Max(0, p.KBXVel-p.KBXDec)
	} else if p.KBXVel < 0 {
		p.KBXVel = math.Min(0, p.KBXVel+p.KBXDec)
	}
	if p.KBYVel > 0 {
		p.KBYVel = math.Max(0, p.KBYVel-p.KBYDec)
	} else if p.KBYVel < 0 {
		p.KBYVel = math.Min(0, p.KBYVel+p.KBYDec)
	}
}

// playerFrameAllowsPassThrough reports whether the current ActionFrame's
// pass_through flag is set and the player is holding the stick down hard
// enough to drop through a pass-through platform (spec.md §4.2 step 4).
func playerFrameAllowsPassThrough(p *Player, f *Fighter) bool {
	_, def := f.ActionDef(p.Action)
	if p.Frame < 0 || p.Frame >= len(def.Frames) {
		return false
	}
	return def.Frames[p.Frame].PassThrough && p.StickSnapshot.Y <= -0.56
}

// testFloorCrossing tests segment (old->new) against every floor surface
// not currently a pass-through target, per spec.md §4.2 step 4. Returns
// the surface index and along-x position of the first floor crossed while
// moving downward.
func testFloorCrossing(stage *Stage, old, newPos Vector2, vy float64, passingThrough bool) (bool, int, float64) {
	if vy > 0 {
		return false, 0, 0
	}
	path := Segment{P1: old, P2: newPos}
	for i, surf := range stage.Surfaces {
		if surf.Floor == nil {
			continue
		}
		if passingThrough && surf.Floor.PassThrough {
			continue
		}
		if pt, _, ok := path.Intersects(surf.Line); ok {
			along := pt.Sub(surf.Line.P1).Len()
			return true, i, along
		}
	}
	return false, 0, 0
}

// advanceOnSurface implements OnSurface traversal (spec.md §4.2 step 4):
// advance along-x by vx*cos(floor_angle); on exiting bounds, follow the
// connected-floor graph, or fall/teeter if there is no neighbour.
func advanceOnSurface(p *Player, f *Fighter, stage *Stage, loc OnSurface, vx float64) {
	surf := stage.Surfaces[loc.Index]
	length := surf.Line.Length()
	along := loc.Along + vx*math.Cos(surf.Angle())

	if along >= 0 && along <= length {
		p.Location = OnSurface{Index: loc.Index, Along: along}
		return
	}

	var neighbour int
	var overflow float64
	if along < 0 {
		neighbour = surf.ConnectedLeft
		overflow = along
	} else {
		neighbour = surf.ConnectedRight
		overflow = along - length
	}

	if neighbour >= 0 {
		next := stage.Surfaces[neighbour]
		nextLen := next.Line.Length()
		var nextAlong float64
		if along < 0 {
			nextAlong = nextLen + overflow
		} else {
			nextAlong = overflow
		}
		p.Location = OnSurface{Index: neighbour, Along: clampf(nextAlong, 0, nextLen)}
		return
	}

	// No connected neighbour: fall off or teeter, gated by the current
	// frame's ledge_cancel flag (spec.md §4.2 step 4).
	_, def := f.ActionDef(p.Action)
	ledgeCancel := len(def.Frames) > 0 && p.Frame >= 0 && p.Frame < len(def.Frames) && def.Frames[p.Frame].LedgeCancel
	if ledgeCancel {
		edge := 0.0
		if along > 0 {
			edge = length
		}
		p.Location = Airborne{X: surf.Line.P1.Add(surf.Line.P2.Sub(surf.Line.P1).Scale(edge / length)).X, Y: surf.Line.P1.Y}
		p.SetAction(Fall)
		return
	}
	p.SetAction(Teeter)
	if along < 0 {
		p.Location = OnSurface{Index: loc.Index, Along: 0}
	} else {
		p.Location = OnSurface{Index: loc.Index, Along: length}
	}
}

// landOn finalizes an airborne->OnSurface transition via the land mechanic
// (spec.md §4.1/§4.2), mirroring player.rs::land.
func landOn(p *Player, f *Fighter, prevAction Action) {
	p.FastFalled = false
	p.AirJumpsLeft = f.AirJumps
	applyLanding(p, f, prevAction)
}

// checkDeath implements the blast-bounds death check (spec.md §4.2 step
// 5), mirroring player.rs::die.
func checkDeath(p *Player, f *Fighter, stage *Stage, playerIndex int, frame int) {
	if stage.BlastBounds.Contains(p.BPS) {
		return
	}
	hitBy := p.HitBy
	p.Result.Deaths = append(p.Result.Deaths, DeathRecord{HitBy: hitBy, Frame: frame})
	p.Stocks--
	spawn := stage.SpawnPoints[playerIndex%len(stage.SpawnPoints)]
	p.Location = Airborne{X: spawn.X, Y: spawn.Y}
	p.BPS = spawn
	p.XVel, p.YVel = 0, 0
	p.KBXVel, p.KBYVel = 0, 0
	p.FastFalled = false
	p.Hitstun(0)
	p.Hitlag = Hitlag{}
	p.AirJumpsLeft = f.AirJumps
	p.HitBy = nil
	if p.Stocks <= 0 {
		p.SetAction(Eliminated)
	} else {
		p.SetAction(ReSpawn)
	}
}

// Hitstun is a tiny setter kept as a method so call sites read naturally;
// hitstun itself is tracked by the hitlag/launch pipeline (hitlag.go).
func (p *Player) Hitstun(v float64) { p.hitstunFrames = v }

// stepHitstun decrements hitstunFrames once per tick and releases the
// player from Damage/DamageFly back to Idle/Fall on expiry (spec.md §3:
// "hitstun (float, decremented each tick)").
func stepHitstun(p *Player, f *Fighter) {
	if p.hitstunFrames <= 0 {
		return
	}
	p.hitstunFrames--
	if p.hitstunFrames > 0 {
		return
	}
	if p.Action != Damage && p.Action != DamageFly {
		return
	}
	if p.isGrounded() {
		p.SetAction(Idle)
	} else {
		p.SetAction(Fall)
	}
}

// checkLedgeGrab implements spec.md §4.2 step 6: eligible airborne players
// moving downward with stick not held down may grab an unoccupied ledge.
func checkLedgeGrab(p *Player, f *Fighter, stage *Stage, players []*Player, playerIndex int) {
	air, ok := p.Location.(Airborne)
	if !ok {
		p.FramesSinceLedge++
		return
	}
	p.FramesSinceLedge++
	if p.FramesSinceLedge < framesSinceLedgeGrabEligible || p.YVel >= 0 || p.StickSnapshot.Y <= -0.5 {
		return
	}
	_, def := f.ActionDef(p.Action)
	if p.Frame < 0 || p.Frame >= len(def.Frames) {
		return
	}
	box := def.Frames[p.Frame].LedgeGrab
	if box == nil {
		return
	}
	worldPoint := Vector2{X: air.X, Y: air.Y}.Add(box.Point)

	for i, surf := range stage.Surfaces {
		for _, left := range []bool{true, false} {
			if left && !surf.LeftGrab {
				continue
			}
			if !left && !surf.RightGrab {
				continue
			}
			if ledgeOccupied(players, playerIndex, i, left) {
				continue
			}
			endpoint := surf.Line.P1
			if !left {
				endpoint = surf.Line.P2
			}
			if circleOverlap(worldPoint, box.Radius, endpoint, 1.0) {
				p.Location = GrabbedLedge{Index: i, Left: left, DX: -3, DY: -24, Policy: LedgePolicyHog}
				p.XVel, p.YVel = 0, 0
				p.KBXVel, p.KBYVel = 0, 0
				p.AirJumpsLeft = f.AirJumps
				p.SetAction(LedgeGrab)
				p.FramesSinceLedge = 0
				return
			}
		}
	}
}

func ledgeOccupied(players []*Player, self int, surfIndex int, left bool) bool {
	for i, other := range players {
		if i == self {
			continue
		}
		if isHoggingLedge(other, surfIndex, left) {
			return true
		}
	}
	return false
}
