package simcore

// Action identifies one of the fixed, small set of named actions a fighter
// can be in. The full list mirrors spec.md §4.1's action families; the set
// is closed so Action can be used as a dense array index for dispatch
// tables (action.go, action_machine.go) rather than a map lookup.
type Action int

const (
	Spawn Action = iota
	SpawnIdle
	ReSpawn
	Idle
	Crouch
	CrouchStart
	CrouchEnd
	JumpSquat
	JumpF
	JumpB
	JumpAerialF
	JumpAerialB
	Fall
	AerialFall
	Land
	Walk
	Dash
	Run
	RunEnd
	TiltTurn
	SmashTurn
	RunTurn
	PassPlatform
	Teeter
	Jab
	Jab2
	Jab3
	Ftilt
	Utilt
	Dtilt
	Fsmash
	Usmash
	Dsmash
	DashAttack
	Grab
	DashGrab
	Fair
	Bair
	Uair
	Dair
	Nair
	FairLand
	BairLand
	UairLand
	DairLand
	NairLand
	ShieldOn
	Shield
	ShieldOff
	PowerShield
	RollF
	RollB
	SpotDodge
	AerialDodge
	SpecialFall
	SpecialLand
	TechF
	TechN
	TechB
	MissedTechStart
	MissedTechIdle
	MissedTechGetupF
	MissedTechGetupN
	MissedTechGetupB
	MissedTechAttack
	Rebound
	ShieldBreakFall
	ShieldBreakGetup
	Stun
	LedgeGrab
	LedgeIdle
	LedgeGetup
	LedgeGetupSlow
	LedgeJump
	LedgeJumpSlow
	LedgeAttack
	LedgeAttackSlow
	LedgeRoll
	LedgeRollSlow
	TauntUp
	TauntDown
	TauntLeft
	TauntRight
	Damage
	DamageFly
	Eliminated
	DummyFramePreStart

	actionCount // sentinel, not a real action
)

// airAttacks is the fixed set of the five aerial attacks (spec.md §4.1).
var airAttacks = map[Action]bool{
	Fair: true, Bair: true, Uair: true, Dair: true, Nair: true,
}

// attackLands maps each air attack to its landing-lag counterpart and
// marks the landing-lag set itself.
var attackLands = map[Action]Action{
	Fair: FairLand, Bair: BairLand, Uair: UairLand, Dair: DairLand, Nair: NairLand,
}

var attackLandSet = map[Action]bool{
	FairLand: true, BairLand: true, UairLand: true, DairLand: true, NairLand: true,
}

// landSet is every action that represents touching down, used by
// is_land / the land_frame_skip mechanism.
var landSet = map[Action]bool{
	Land: true, FairLand: true, BairLand: true, UairLand: true, DairLand: true,
	NairLand: true, SpecialLand: true, Idle: true,
}

// isAirAttack reports whether a is one of the five aerials.
func isAirAttack(a Action) bool { return airAttacks[a] }

// isAttackLand reports whether a is one of the five landing-lag forms.
func isAttackLand(a Action) bool { return attackLandSet[a] }

// isLand reports whether a is any landing variant, triggering the
// land_frame_skip mechanism on entry.
func isLand(a Action) bool { return landSet[a] }

// CollisionBoxRole tags a CollisionBox as either a hurtbox or a hitbox.
type CollisionBoxRole int

const (
	RoleHurt CollisionBoxRole = iota
	RoleHit
)

// HurtProperties carries the Hurt-role parameters of a CollisionBox.
type HurtProperties struct {
	DamageMult float64
	KBGAdd     float64
	BKBAdd     float64
}

// HitstunKind distinguishes a hitbox's hitstun formula.
type HitstunKind int

const (
	HitstunProportional HitstunKind = iota // frames = kb_vel * a constant
	HitstunFlat                            // frames = a fixed constant
)

// Hitbox carries the Hit-role parameters of a CollisionBox.
type Hitbox struct {
	Damage       float64
	BKB          float64 // base knockback
	KBG          float64 // knockback growth
	Angle        float64 // degrees; 361 means "sakurai angle", 180-361 its mirror
	ShieldDamage float64
	HitstunKind  HitstunKind
	HitstunValue float64
	ReverseHit   bool // mirror angle when defender is behind attacker
}

// CollisionBox is a circle positioned relative to the player's bps, tagged
// with a Role and the role-specific parameters (spec.md §3 ActionFrame).
type CollisionBox struct {
	Point  Vector2
	Radius float64
	Role   CollisionBoxRole
	Hurt   HurtProperties
	Hit    Hitbox
}

// ColboxLink is an edge in the colbox graph, used by rendering to draw a
// capsule between two colboxes and to partition hitboxes into attachment
// groups (spec.md glossary: Link). The simulation core only needs the
// connectivity to preserve link membership across editor colbox ops.
type ColboxLink struct {
	From, To int
}

// ECBOffsets are the four directed offsets forming the diamond used for
// landing and traversal tests (spec.md glossary: ECB).
type ECBOffsets struct {
	Top, Bottom, Left, Right float64
}

// LedgeGrabBox is the optional per-frame ledge-grab hurtbox-like test box.
type LedgeGrabBox struct {
	Point  Vector2
	Radius float64
}

// ActionFrame is one frame of an Action's animation: colboxes, ECB,
// optional velocity overrides, and behavioural flags (spec.md §3).
type ActionFrame struct {
	Colboxes          []CollisionBox
	Links             []ColboxLink
	RenderOrder       []int
	ECB               ECBOffsets
	SetXVel           *float64
	SetYVel           *float64
	LedgeGrab         *LedgeGrabBox
	PassThrough       bool
	LedgeCancel       bool
	UsePlatformAngle  bool
	ForceHitlistReset bool
	GrabHoldOffset    Vector2
}

// ActionDef is one action's definition: its IASA frame and its ordered
// frame list.
type ActionDef struct {
	IASA   int
	Frames []ActionFrame
}
