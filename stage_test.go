package simcore

import "testing"

func TestNewBaseStageFixture(t *testing.T) {
	s := NewBaseStage()
	if len(s.Surfaces) != 1 {
		t.Fatalf("expected 1 surface, got %d", len(s.Surfaces))
	}
	if s.Surfaces[0].Line.P1.X != -80 || s.Surfaces[0].Line.P2.X != 80 {
		t.Errorf("expected the fixture floor to span -80..80, got %+v", s.Surfaces[0].Line)
	}
}

func TestPlatformDeletedShiftsHigherIndices(t *testing.T) {
	s := &Stage{Surfaces: []Surface{
		{Line: Segment{P1: Vector2{X: 0, Y: 0}, P2: Vector2{X: 10, Y: 0}}},
		{Line: Segment{P1: Vector2{X: 20, Y: 0}, P2: Vector2{X: 30, Y: 0}}},
		{Line: Segment{P1: Vector2{X: 40, Y: 0}, P2: Vector2{X: 50, Y: 0}}},
	}}
	f := testFighter()
	p := NewPlayer("test", 0, Vector2{}, f)
	p.Location = OnSurface{Index: 2, Along: 3}

	s.PlatformDeleted(1, []*Player{p})

	if len(s.Surfaces) != 2 {
		t.Fatalf("expected 2 surfaces remaining, got %d", len(s.Surfaces))
	}
	loc, ok := p.Location.(OnSurface)
	if !ok {
		t.Fatalf("expected player to remain OnSurface, got %+v", p.Location)
	}
	if loc.Index != 1 {
		t.Errorf("expected surface index to shift down to 1, got %d", loc.Index)
	}
}

func TestAdvanceOnSurfaceFollowsConnectedFloor(t *testing.T) {
	f := testFighter()
	stage := &Stage{Surfaces: []Surface{
		{Line: Segment{P1: Vector2{X: -10, Y: 0}, P2: Vector2{X: 0, Y: 0}}, Floor: &FloorAttributes{}, ConnectedLeft: -1, ConnectedRight: 1},
		{Line: Segment{P1: Vector2{X: 0, Y: 0}, P2: Vector2{X: 10, Y: 0}}, Floor: &FloorAttributes{}, ConnectedLeft: 0, ConnectedRight: -1},
	}}
	p := NewPlayer("test", 0, Vector2{}, f)
	p.Location = OnSurface{Index: 0, Along: 9}

	advanceOnSurface(p, f, stage, OnSurface{Index: 0, Along: 9}, 5)

	loc, ok := p.Location.(OnSurface)
	if !ok {
		t.Fatalf("expected player to remain OnSurface via the connected neighbour, got %+v", p.Location)
	}
	if loc.Index != 1 {
		t.Errorf("expected to cross onto surface 1, got %d", loc.Index)
	}
	if loc.Along != 4 {
		t.Errorf("expected overflow of 4 onto the neighbour, got %f", loc.Along)
	}
}

func TestAdvanceOnSurfaceTeetersWithoutNeighbour(t *testing.T) {
	f := testFighter()
	f.Actions[Teeter] = ActionDef{Frames: make([]ActionFrame, 1)}
	stage := &Stage{Surfaces: []Surface{
		{Line: Segment{P1: Vector2{X: -10, Y: 0}, P2: Vector2{X: 0, Y: 0}}, Floor: &FloorAttributes{}, ConnectedLeft: -1, ConnectedRight: -1},
	}}
	p := NewPlayer("test", 0, Vector2{}, f)
	p.SetAction(Idle)
	p.Location = OnSurface{Index: 0, Along: 9}

	advanceOnSurface(p, f, stage, OnSurface{Index: 0, Along: 9}, 5)

	if p.Action != Teeter {
		t.Errorf("expected Teeter when walking off an unconnected edge, got %d", p.Action)
	}
	loc, ok := p.Location.(OnSurface)
	if !ok || loc.Along != 10 {
		t.Errorf("expected the player clamped to the surface end, got %+v", p.Location)
	}
}
