package simcore

import "math"

// actionHandler is the per-action per-frame handler contract (spec.md
// §4.1): it may read input history, call p.SetAction, and modify physics
// state. Dispatch is table-driven rather than a mega-switch (spec.md §9),
// following parser.go's handleEvent / reader.go's parsePayload idiom.
type actionHandler func(p *Player, f *Fighter, h *ControllerHistory)

// actionHandlers maps each Action to its handler. Populated in init so the
// table is a plain array lookup at runtime.
var actionHandlers [actionCount]actionHandler

func init() {
	for a := Action(0); a < actionCount; a++ {
		actionHandlers[a] = defaultHandler
	}

	aerial := []Action{Fall, AerialFall, JumpAerialF, JumpAerialB, Fair, Bair, Uair, Dair, Nair, AerialDodge, SpecialFall}
	for _, a := range aerial {
		actionHandlers[a] = aerialActionHandler
	}

	ground := []Action{Idle, Walk, Crouch, CrouchStart, CrouchEnd, Teeter}
	for _, a := range ground {
		actionHandlers[a] = groundIdleActionHandler
	}

	actionHandlers[Dash] = dashActionHandler
	actionHandlers[Run] = runActionHandler
}

// defaultHandler runs no transition checks; the action simply plays out
// to action_expired.
func defaultHandler(p *Player, f *Fighter, h *ControllerHistory) {}

// inputStep is the per-player, per-tick entry point matching
// player.rs::input_step: advances the frame counter (with action_expired
// on exhaustion), refreshes ECB, and dispatches to the current action's
// handler.
func inputStep(p *Player, f *Fighter, h *ControllerHistory, playerIndex int) {
	_, def := f.ActionDef(p.Action)
	if p.Frame >= 0 && p.Frame >= len(def.Frames)-1 {
		next := actionExpired(p.Action, p, f, h)
		p.SetAction(next)
		_, def = f.ActionDef(p.Action)
	} else if p.Frame >= 0 {
		p.Frame++
	}
	if p.Frame < 0 {
		p.Frame = 0
	}

	if len(def.Frames) > 0 && p.Frame < len(def.Frames) {
		frame := def.Frames[p.Frame]
		p.ecb = frame.ECB
		if p.Action == JumpSquat {
			// JumpSquat takes its ecb_bottom from the current frame like
			// every other action; the landing test uses the player's
			// position, not the ECB.
			p.ecb.Bottom = frame.ECB.Bottom
		}
	}

	actionHandlers[p.Action](p, f, h)
	p.FrameNoRestart++
}

// aerialActionHandler mirrors player.rs::aerial_action.
func aerialActionHandler(p *Player, f *Fighter, h *ControllerHistory) {
	c := h.Current()

	if checkAttacksAerial(h) {
		p.SetAction(pickAerialAttack(h, p.FaceRight))
		return
	}
	if checkSpecial(h) {
		return
	}
	if checkJumpAerial(h) && p.AirJumpsLeft > 0 {
		p.AirJumpsLeft--
		p.YVel = f.AirJumpYVel
		if c.StickX < -0.1 {
			p.SetAction(JumpAerialB)
		} else {
			p.SetAction(JumpAerialF)
		}
		return
	}
	if c.L || c.R {
		p.SetAction(AerialDodge)
		return
	}

	airDrift(p, f, h)
	fastfallAction(p, f, h)
}

// pickAerialAttack mirrors player.rs::check_attacks_aerial's direction
// gating: a relative-forward stick push selects Fair, relative-backward
// selects Bair, otherwise the dominant vertical axis picks Dair/Uair, and
// a centered stick falls back to Nair (spec.md §4.1).
func pickAerialAttack(h *ControllerHistory, faceRight bool) Action {
	c := h.Current()
	relX := relativeF(c.StickX, faceRight)
	switch {
	case relX > 0.3 && math.Abs(c.StickX) > math.Abs(c.StickY)-0.1:
		return Fair
	case relX < -0.3 && math.Abs(c.StickX) > math.Abs(c.StickY)-0.1:
		return Bair
	case c.StickY < -0.3:
		return Dair
	case c.StickY > 0.3:
		return Uair
	default:
		return Nair
	}
}

// airDrift mirrors player.rs's air-mobility formula (spec.md §4.1).
func airDrift(p *Player, f *Fighter, h *ControllerHistory) {
	c := h.Current()
	termVel := f.AirXTermVel * c.StickX
	if math.Abs(c.StickX) < 0.3 || (termVel >= 0 && p.XVel > termVel) || (termVel < 0 && p.XVel < termVel) {
		if p.XVel > 0 {
			p.XVel = math.Max(0, p.XVel-f.AirFriction)
		} else if p.XVel < 0 {
			p.XVel = math.Min(0, p.XVel+f.AirFriction)
		}
		return
	}
	accel := f.AirMobilityA*c.StickX + f.AirMobilityB*signf(c.StickX)
	p.XVel += accel
	if (accel > 0 && p.XVel > termVel) || (accel < 0 && p.XVel < termVel) {
		p.XVel = termVel
	}
}

// fastfallAction mirrors player.rs's fastfall latch (spec.md §4.1).
func fastfallAction(p *Player, f *Fighter, h *ControllerHistory) {
	c := h.Current()
	prev3 := h.At(3)
	if !p.FastFalled && prev3.StickY >= -0.1 && c.StickY < -0.65 && p.YVel < 0 {
		p.YVel = f.FastFallTermVel
		p.FastFalled = true
		return
	}
	p.YVel = math.Max(p.YVel+f.Gravity, f.TerminalVel)
}

// groundIdleActionHandler mirrors player.rs::ground_idle_action.
func groundIdleActionHandler(p *Player, f *Fighter, h *ControllerHistory) {
	if checkCrouch(h) {
		p.SetAction(Crouch)
		return
	}
	if checkDash(h) {
		c := h.Current()
		p.FaceRight = c.StickX > 0
		p.XVel = f.DashInitVel * signf(c.StickX)
		p.SetAction(Dash)
		return
	}
	if checkJump(h) {
		p.SetAction(JumpSquat)
		return
	}
	if checkAttacks(h) {
		p.SetAction(Jab)
		return
	}
	if checkSmash(h) {
		p.SetAction(Fsmash)
		return
	}
	if fired, up, down, _, _ := checkTaunt(h); fired {
		switch {
		case up:
			p.SetAction(TauntUp)
		case down:
			p.SetAction(TauntDown)
		}
		return
	}
	if p.Action == Idle && checkWalk(h) {
		p.SetAction(Walk)
		return
	}
	if p.Action == Walk && !checkWalk(h) {
		p.SetAction(Idle)
		return
	}
}

// dashActionHandler mirrors player.rs::dash_action.
func dashActionHandler(p *Player, f *Fighter, h *ControllerHistory) {
	c := h.Current()
	if checkJump(h) {
		p.SetAction(JumpSquat)
		return
	}
	if c.StickX < -0.35 && p.FaceRight || c.StickX > 0.35 && !p.FaceRight {
		p.SetAction(SmashTurn)
		return
	}
	accel := f.DashRunAccA*math.Abs(c.StickX) + f.DashRunAccB
	if p.FaceRight {
		p.XVel = math.Min(p.XVel+accel, f.DashRunTermVel)
	} else {
		p.XVel = math.Max(p.XVel-accel, -f.DashRunTermVel)
	}
}

// runActionHandler mirrors player.rs::run_action.
func runActionHandler(p *Player, f *Fighter, h *ControllerHistory) {
	c := h.Current()
	if checkJump(h) {
		p.SetAction(JumpSquat)
		return
	}
	if c.StickX <= 0.613 {
		p.SetAction(RunEnd)
		return
	}
	if checkAttacks(h) {
		p.SetAction(DashAttack)
		return
	}
	accel := f.DashRunAccA*math.Abs(c.StickX) + f.DashRunAccB
	if p.FaceRight {
		p.XVel = math.Min(p.XVel+accel, f.DashRunTermVel)
	} else {
		p.XVel = math.Max(p.XVel-accel, -f.DashRunTermVel)
	}
}

// actionExpired picks the default successor for a when its frame list is
// exhausted, mirroring player.rs::action_expired's exhaustive match
// (spec.md §4.1).
func actionExpired(a Action, p *Player, f *Fighter, h *ControllerHistory) Action {
	switch a {
	case Spawn:
		return Idle
	case SpawnIdle:
		return Idle
	case JumpSquat:
		held := h.At(3)
		c := h.Current()
		short := !held.X && !held.Y && c.StickY <= 0.15
		if short {
			p.YVel = f.JumpYInitVelShort
		} else {
			p.YVel = f.JumpYInitVel
		}
		if c.StickX < -0.1 {
			return JumpB
		}
		return JumpF
	case JumpF, JumpB, JumpAerialF, JumpAerialB:
		return Fall
	case Dash:
		return Run
	case RunEnd:
		return Idle
	case Jab:
		return Idle
	case Jab2:
		return Idle
	case Jab3:
		return Idle
	case Damage:
		return Damage
	case DamageFly:
		return Fall
	case Fall, AerialFall:
		return Fall
	case Land:
		return Idle
	case FairLand, BairLand, UairLand, DairLand, NairLand:
		return Idle
	case SpecialLand:
		return Idle
	case SpecialFall:
		return SpecialFall
	case Fair, Bair, Uair, Dair, Nair:
		if land, ok := attackLands[a]; ok {
			return land
		}
		return Fall
	case ShieldOn:
		return Shield
	case Shield:
		return Shield
	case ShieldOff:
		return Idle
	case PowerShield:
		return Shield
	case RollF, RollB, SpotDodge:
		return Idle
	case AerialDodge:
		return SpecialFall
	case TechF, TechN, TechB:
		return Idle
	case MissedTechStart:
		return MissedTechIdle
	case MissedTechIdle:
		return MissedTechIdle
	case MissedTechGetupF, MissedTechGetupN, MissedTechGetupB, MissedTechAttack:
		return setActionIdleFromLedge(a)
	case Rebound:
		return Idle
	case ShieldBreakFall:
		return Fall
	case ShieldBreakGetup:
		return Idle
	case Stun:
		return Idle
	case LedgeGrab:
		return LedgeIdle
	case LedgeIdle:
		return LedgeIdle
	case LedgeGetup, LedgeGetupSlow, LedgeJump, LedgeJumpSlow, LedgeAttack, LedgeAttackSlow, LedgeRoll, LedgeRollSlow:
		return setActionIdleFromLedge(a)
	case TauntUp, TauntDown, TauntLeft, TauntRight:
		return Idle
	case Eliminated:
		return Eliminated
	case ReSpawn:
		return Idle
	case DummyFramePreStart:
		return Idle
	case Crouch, CrouchStart, CrouchEnd:
		return Idle
	case Teeter:
		return Idle
	case Walk:
		return Idle
	case Run:
		return RunEnd
	case TiltTurn, SmashTurn, RunTurn:
		return Idle
	case PassPlatform:
		return Fall
	default:
		return Idle
	}
}

// setActionIdleFromLedge mirrors player.rs's set_action_idle_from_ledge:
// every ledge-getup variant returns to plain Idle.
func setActionIdleFromLedge(a Action) Action { return Idle }

// relativeF mirrors player.rs's relative_f: mirrors a value by facing.
func relativeF(v float64, faceRight bool) float64 {
	if faceRight {
		return v
	}
	return -v
}

// applyLanding implements the land mechanic (spec.md §4.1): consults
// lcancel_timer to compute land_frame_skip and chooses the successor
// action from the current (pre-land) action.
func applyLanding(p *Player, f *Fighter, prevAction Action) {
	p.Result.LCancelAttempts++
	skip := 0
	lcancelling := p.LCancelTimer > 0 && isAirAttack(prevAction)
	switch {
	case lcancelling:
		skip = 1
		p.Result.LCancelSuccesses++
	case prevAction == SpecialFall || prevAction == AerialDodge:
		skip = 2
	}

	var next Action
	switch {
	case isAirAttack(prevAction):
		next = attackLands[prevAction]
	case prevAction == SpecialFall || prevAction == AerialDodge:
		next = SpecialLand
	case p.YVel >= -1:
		next = Idle
	default:
		next = Land
	}

	p.SetAction(next)
	_, def := f.ActionDef(next)
	last := len(def.Frames) - 1
	if last < 0 {
		last = 0
	}
	p.Frame = minInt(last, skip)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
