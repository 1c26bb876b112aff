package simcore

// Location is one of {Airborne, OnSurface, GrabbedLedge, GrabbedByPlayer}
// (spec.md §3 invariant (c): exactly one is active at a time). GrabbedByPlayer
// stores an index into the players slice, never a back-pointer, so grab-anchor
// resolution stays a pure function of the current snapshot (spec.md §9).
type Location interface{ isLocation() }

// Airborne is free-falling/jumping location state.
type Airborne struct{ X, Y float64 }

func (Airborne) isLocation() {}

// OnSurface anchors the player to a surface index and an along-surface
// x position.
type OnSurface struct {
	Index int
	Along float64
}

func (OnSurface) isLocation() {}

// GrabbedLedge anchors the player to a ledge endpoint with a fixed offset
// and the hog/share/trump policy in effect.
type GrabbedLedge struct {
	Index  int
	Left   bool
	DX, DY float64
	Policy LedgePolicy
}

func (GrabbedLedge) isLocation() {}

// GrabbedByPlayer represents being held by another player, referenced by
// index (spec.md §9).
type GrabbedByPlayer struct{ PlayerIndex int }

func (GrabbedByPlayer) isLocation() {}

// locationXY resolves a Location to world coordinates given the owning
// Stage and the other players (for GrabbedByPlayer anchor resolution).
func locationXY(loc Location, stage *Stage, players []*Player) Vector2 {
	switch l := loc.(type) {
	case Airborne:
		return Vector2{X: l.X, Y: l.Y}
	case OnSurface:
		surf := stage.Surfaces[l.Index]
		dir := surf.Line.P2.Sub(surf.Line.P1)
		length := dir.Len()
		if length == 0 {
			return surf.Line.P1
		}
		unit := dir.Scale(1 / length)
		return surf.Line.P1.Add(unit.Scale(l.Along))
	case GrabbedLedge:
		surf := stage.Surfaces[l.Index]
		anchor := surf.Line.P1
		if !l.Left {
			anchor = surf.Line.P2
		}
		return anchor.Add(Vector2{X: l.DX, Y: l.DY})
	case GrabbedByPlayer:
		if l.PlayerIndex >= 0 && l.PlayerIndex < len(players) {
			return players[l.PlayerIndex].BPS
		}
		return Vector2{}
	default:
		return Vector2{}
	}
}

// HitlagKind tags the Hitlag tagged union (spec.md §9: "keep the tag
// explicit; do not reuse sentinel counter values").
type HitlagKind int

const (
	HitlagNone HitlagKind = iota
	HitlagFrozen
	HitlagLaunch
)

// Hitlag is the { None, Frozen{n}, Launch{n,kb_vel,angle,wobble_x} } tagged
// union from spec.md §9.
type Hitlag struct {
	Kind    HitlagKind
	Counter float64
	KBVel   float64
	Angle   float64
	WobbleX float64
}

// TechKind tags the tech input window's state (spec.md §3).
type TechKind int

const (
	TechFree TechKind = iota
	TechActive
	TechLocked
)

// TechTimer is the Free | Active{n} | Locked{n} tagged union.
type TechTimer struct {
	Kind    TechKind
	Counter int
}

// DeathRecord is one accumulated death: who killed this player and when.
type DeathRecord struct {
	HitBy *int
	Frame int
}

// PlayerResult accumulates the per-player result data spec.md §3
// describes: "deaths with attacker and frame, lcancel attempts/successes".
type PlayerResult struct {
	Deaths          []DeathRecord
	LCancelAttempts int
	LCancelSuccesses int
}

// Player is the full per-tick mutable player state (spec.md §3).
type Player struct {
	FighterKey string
	Team       int

	Action         Action
	Frame          int // signed; -1 means "pre-first-frame"
	FrameNoRestart int // monotone across same-action restarts

	Stocks int
	Damage float64

	Location Location
	BPS      Vector2 // resolved world position, refreshed each physics step

	XVel, YVel float64
	KBXVel, KBYVel float64
	KBXDec, KBYDec float64

	FaceRight  bool
	FastFalled bool

	AirJumpsLeft int

	ShieldHP      float64
	ShieldAnalog  float64
	ShieldOffset  Vector2

	StunTimer      int
	ShieldStunTimer int
	ParryTimer     int
	Tech           TechTimer
	LCancelTimer   int

	Hitlist []int
	Hitlag  Hitlag

	HitBy *int

	StickSnapshot  Vector2
	CStickSnapshot Vector2

	FramesSinceLedge int
	LedgeIdleTimer   int

	Result PlayerResult

	ecb           ECBOffsets
	hitstunFrames float64
}

// NewPlayer constructs a player positioned at spawn, airborne, facing
// right, with a full air-jump count -- the only constructor; players are
// never added or removed after game start (spec.md §3 Lifecycles).
func NewPlayer(fighterKey string, team int, spawn Vector2, fighter *Fighter) *Player {
	return &Player{
		FighterKey:   fighterKey,
		Team:         team,
		Action:       Spawn,
		Frame:        0,
		Stocks:       4,
		Location:     Airborne{X: spawn.X, Y: spawn.Y},
		BPS:          spawn,
		FaceRight:    true,
		AirJumpsLeft: fighter.AirJumps,
		ShieldHP:     fighter.ShieldHPMax,
	}
}

// SetAction performs the deferred action transition (spec.md §4.1): clears
// the hitlist, resets frame to -1, and resets FrameNoRestart unless a is
// the action already in progress. It does not run the new action's
// handler: inputStep moves a frame of -1 to 0 on the player's next action
// pass and runs the handler there, so no handler call sees frame -1.
func (p *Player) SetAction(a Action) {
	if p.Action != a {
		p.FrameNoRestart = 0
	}
	p.Action = a
	p.Frame = -1
	p.Hitlist = nil
}

// clampToFighter enforces spec.md §3 invariants (a) and (b): an
// out-of-range action forces Idle, and frame is clamped to the action's
// frame list on entry. Called at the top of every simulation step so an
// editor deletion under the player's feet never crashes the tick.
func (p *Player) clampToFighter(f *Fighter) {
	valid, _ := f.ActionDef(p.Action)
	p.Action = valid
	count := f.FrameCount(p.Action)
	if count == 0 {
		p.Frame = 0
		return
	}
	if p.Frame >= count {
		p.Frame = count - 1
	}
	if p.Frame < -1 {
		p.Frame = 0
	}
}

// Clone returns a deep-enough copy of p for history snapshots: slice
// fields get independent backing arrays so a later append on either copy
// can never alias the other (spec.md §8 property 2: rollback
// correctness).
func (p *Player) Clone() Player {
	cp := *p
	cp.Hitlist = append([]int(nil), p.Hitlist...)
	cp.Result.Deaths = append([]DeathRecord(nil), p.Result.Deaths...)
	return cp
}

// isGrounded reports whether the player's location is OnSurface.
func (p *Player) isGrounded() bool {
	_, ok := p.Location.(OnSurface)
	return ok
}

// isAirborne reports whether the player's location is Airborne.
func (p *Player) isAirborne() bool {
	_, ok := p.Location.(Airborne)
	return ok
}
