package simcore

// renderHistoryLen is the motion-trail tail length (spec.md §6: "a history
// tail of the last <=10 snapshots").
const renderHistoryLen = 10

// PlayerRenderState is one player's slice of a RenderSnapshot (spec.md
// §6).
type PlayerRenderState struct {
	FighterKey string
	BPS        Vector2
	ECB        ECBOffsets
	Frame      int
	Action     Action
	FaceRight  bool
	Team       int
	Damage     float64
	Stocks     int

	SelectedColboxes []int
	Shielding        bool
	ShieldPos        Vector2
	ShieldRadius     float64
}

// RenderSnapshot is the per-tick, read-only copy handed to a renderer
// (spec.md §6); its slices are copies and never alias live simulation
// state (each Surface's Floor attributes are still shared by pointer).
type RenderSnapshot struct {
	Frame   int
	Players []PlayerRenderState
	Trail   [][]PlayerRenderState

	Surfaces     []Surface
	SelectedSurfaces []int
	TimeRemaining    int
}

// BuildRenderSnapshot copies the current player/stage state into an
// immutable RenderSnapshot, trimming the trail to renderHistoryLen.
func BuildRenderSnapshot(frame int, players []*Player, stage *Stage, trail [][]PlayerRenderState, timeRemaining int) RenderSnapshot {
	snap := RenderSnapshot{Frame: frame, Surfaces: append([]Surface(nil), stage.Surfaces...), TimeRemaining: timeRemaining}
	for _, p := range players {
		snap.Players = append(snap.Players, PlayerRenderState{
			FighterKey: p.FighterKey,
			BPS:        p.BPS,
			ECB:        p.ecb,
			Frame:      p.Frame,
			Action:     p.Action,
			FaceRight:  p.FaceRight,
			Team:       p.Team,
			Damage:     p.Damage,
			Stocks:     p.Stocks,
			Shielding:  defenderShielding(p),
			ShieldPos:  p.BPS.Add(p.ShieldOffset),
			ShieldRadius: p.ShieldAnalog,
		})
	}

	trail = append(trail, snap.Players)
	if len(trail) > renderHistoryLen {
		trail = trail[len(trail)-renderHistoryLen:]
	}
	snap.Trail = trail
	return snap
}
