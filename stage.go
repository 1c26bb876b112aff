package simcore

// FloorAttributes describes the floor-specific behaviour of a Surface
// (spec.md §3: "floor: optional {traction, pass_through}").
type FloorAttributes struct {
	Traction    float64
	PassThrough bool
}

// LedgePolicy controls how many players may simultaneously occupy a ledge
// (spec.md glossary: Ledge -- Hog | Share | Trump).
type LedgePolicy int

const (
	LedgePolicyNone LedgePolicy = iota
	LedgePolicyHog
	LedgePolicyShare
	LedgePolicyTrump
)

// Surface is a directed line segment with side-role flags (spec.md §3).
type Surface struct {
	Line Segment

	Floor   *FloorAttributes
	Ceiling bool
	Wall    bool

	LeftGrab  bool
	RightGrab bool
	LedgePolicy LedgePolicy

	// ConnectedLeft/ConnectedRight index neighbouring surfaces that share
	// this surface's left/right endpoint, forming the connected-floor
	// graph used by OnSurface traversal (spec.md §4.2 step 4). -1 means
	// no connected neighbour.
	ConnectedLeft  int
	ConnectedRight int
}

// Angle returns the surface's floor angle in radians.
func (s Surface) Angle() float64 { return s.Line.Angle() }

// Stage is an ordered sequence of Surfaces plus spawn/respawn points and
// the blast/camera bounds (spec.md §3).
type Stage struct {
	Name string

	Surfaces []Surface

	SpawnPoints   []Vector2
	RespawnPoints []Vector2

	BlastBounds  Rect
	CameraBounds Rect
}

// NewBaseStage returns a minimal one-floor stage matching spec.md §8's
// end-to-end scenario fixture: a single horizontal floor from (-80,0) to
// (80,0).
func NewBaseStage() *Stage {
	return &Stage{
		Name: "Base Stage",
		Surfaces: []Surface{
			{
				Line:           Segment{P1: Vector2{X: -80, Y: 0}, P2: Vector2{X: 80, Y: 0}},
				Floor:          &FloorAttributes{Traction: 1.0},
				ConnectedLeft:  -1,
				ConnectedRight: -1,
			},
		},
		SpawnPoints:   []Vector2{{X: -50, Y: 50}, {X: 50, Y: 50}},
		RespawnPoints: []Vector2{{X: -50, Y: 50}, {X: 50, Y: 50}},
		BlastBounds:   Rect{X1: -250, Y1: -250, X2: 250, Y2: 250},
		CameraBounds:  Rect{X1: -200, Y1: -200, X2: 200, Y2: 200},
	}
}

// PlatformDeleted resolves deletions of a surface referenced by player
// locations (spec.md §3 Lifecycles): every player whose Location
// references the deleted index is forced Airborne, and higher surface
// indices in still-referenced locations are shifted down by one.
func (s *Stage) PlatformDeleted(index int, players []*Player) {
	s.Surfaces = append(s.Surfaces[:index], s.Surfaces[index+1:]...)
	for _, p := range players {
		switch loc := p.Location.(type) {
		case OnSurface:
			switch {
			case loc.Index == index:
				p.Location = Airborne{X: 0, Y: 0}
			case loc.Index > index:
				loc.Index--
				p.Location = loc
			}
		case GrabbedLedge:
			switch {
			case loc.Index == index:
				p.Location = Airborne{X: 0, Y: 0}
			case loc.Index > index:
				loc.Index--
				p.Location = loc
			}
		}
	}
}

// isHoggingLedge reports whether player p currently occupies the ledge at
// (surfaceIndex, left) with Hog policy semantics (testable property 5).
func isHoggingLedge(p *Player, surfaceIndex int, left bool) bool {
	gl, ok := p.Location.(GrabbedLedge)
	if !ok {
		return false
	}
	return gl.Index == surfaceIndex && gl.Left == left
}
